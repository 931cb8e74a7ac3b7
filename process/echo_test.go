//go:build !windows

package process

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/thread"
	"github.com/sarchlab/vproc/worker"
)

var _ = Describe("Echo scenario", func() {
	var (
		mockCtrl *gomock.Controller
		logs     *logtest.Hook
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		logs = logtest.NewGlobal()
	})

	AfterEach(func() {
		logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
		mockCtrl.Finish()
	})

	It("should run /bin/echo to completion and report once", func() {
		engine := sim.NewSerialEngine()
		objCounter := counter.NewObjectCounter()
		w := worker.New(engine, objCounter)

		cpu := NewMockDelayAccumulator(mockCtrl)
		cpu.EXPECT().AddDelay(gomock.Any()).MinTimes(1)
		tracker := NewMockProcessingTracker(mockCtrl)
		tracker.EXPECT().AddProcessingTime(gomock.Any()).MinTimes(1)
		host := NewMockHost(mockCtrl)
		host.EXPECT().Name().Return("node").AnyTimes()
		host.EXPECT().CPU().Return(cpu).AnyTimes()
		host.EXPECT().Tracker().Return(tracker).AnyTimes()

		h, err := MakeBuilder().
			WithWorker(w).
			WithHost(host).
			WithThreadFactory(thread.NewRegistry().Factory("/bin/echo")).
			WithID(1).
			WithPlugin("echo", "/bin/echo").
			WithArguments("hello").
			Build()
		Expect(err).NotTo(HaveOccurred())

		p := h.Process()
		Expect(p.Argv()).To(Equal([]string{"/bin/echo", "hello"}))

		Expect(Schedule(h)).To(Equal(1))
		Expect(engine.Run()).To(Succeed())

		Expect(engine.CurrentTime()).To(Equal(sim.VTime(1)))
		Expect(p.State()).To(Equal(StateIdle))
		Expect(p.ReturnCode()).To(Equal(0))
		Expect(p.TotalRunTime()).To(BeNumerically(">", 0))

		reports := 0
		for _, e := range logs.AllEntries() {
			if strings.HasPrefix(e.Message, "main success code") ||
				strings.HasPrefix(e.Message, "main error code") {
				reports++
			}
		}
		Expect(reports).To(Equal(1))

		h.Release()
		Expect(objCounter.Leaks()).To(BeEmpty())
	})
})
