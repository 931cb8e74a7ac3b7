package process

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/thread"
	"github.com/sarchlab/vproc/worker"
)

var _ = Describe("Schedule", func() {
	var (
		mockCtrl   *gomock.Controller
		engine     *sim.SerialEngine
		host       *MockHost
		factory    *MockFactory
		objCounter *counter.ObjectCounter
		w          *worker.Worker
		builder    Builder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = sim.NewSerialEngine()
		objCounter = counter.NewObjectCounter()
		w = worker.New(engine, objCounter)

		cpu := NewMockDelayAccumulator(mockCtrl)
		cpu.EXPECT().AddDelay(gomock.Any()).AnyTimes()
		tracker := NewMockProcessingTracker(mockCtrl)
		tracker.EXPECT().AddProcessingTime(gomock.Any()).AnyTimes()

		host = NewMockHost(mockCtrl)
		host.EXPECT().Name().Return("node").AnyTimes()
		host.EXPECT().CPU().Return(cpu).AnyTimes()
		host.EXPECT().Tracker().Return(tracker).AnyTimes()

		factory = NewMockFactory(mockCtrl)

		builder = MakeBuilder().
			WithWorker(w).
			WithHost(host).
			WithThreadFactory(factory).
			WithID(1).
			WithPlugin("app", "/usr/bin/app")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	build := func(start, stop sim.VTime) *Handle {
		h, err := builder.WithStartTime(start).WithStopTime(stop).Build()
		Expect(err).NotTo(HaveOccurred())

		return h
	}

	// newUnit returns a thread that runs until terminated.
	newUnit := func(startedAt, stoppedAt *sim.VTime) *MockThread {
		running := false
		unit := NewMockThread(mockCtrl)
		unit.EXPECT().IsRunning().DoAndReturn(func() bool {
			return running
		}).AnyTimes()
		unit.EXPECT().ReturnCode().Return(0).AnyTimes()
		unit.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(ctx thread.Context, argv, envv []string) {
				*startedAt = ctx.Now()
				running = true
			})
		unit.EXPECT().Terminate(gomock.Any()).
			Do(func(ctx thread.Context) {
				*stoppedAt = ctx.Now()
				running = false
			}).
			MaxTimes(1)
		unit.EXPECT().Release().MaxTimes(1)

		return unit
	}

	It("should only schedule a start without a stop time", func() {
		h := build(10, 0)

		Expect(Schedule(h)).To(Equal(1))
		Expect(h.Process().RefCount()).To(Equal(int32(2)))
		Expect(engine.Pending()).To(Equal(1))
	})

	It("should schedule start and stop for a window", func() {
		h := build(10, 20)

		Expect(Schedule(h)).To(Equal(2))
		Expect(h.Process().RefCount()).To(Equal(int32(3)))
		Expect(engine.Pending()).To(Equal(2))
	})

	DescribeTable("should schedule nothing for an empty or inverted window",
		func(start, stop sim.VTime) {
			h := build(start, stop)

			Expect(Schedule(h)).To(Equal(0))
			Expect(h.Process().RefCount()).To(Equal(int32(1)))
		},
		Entry("equal", sim.VTime(10), sim.VTime(10)),
		Entry("inverted", sim.VTime(10), sim.VTime(5)),
	)

	It("should start and stop at the scheduled times", func() {
		var startedAt, stoppedAt sim.VTime
		factory.EXPECT().NewThread(0, gomock.Any()).
			Return(newUnit(&startedAt, &stoppedAt))

		h := build(10, 20)
		Schedule(h)
		Expect(engine.Run()).To(Succeed())

		Expect(startedAt).To(Equal(sim.VTime(10)))
		Expect(stoppedAt).To(Equal(sim.VTime(20)))
		Expect(h.Process().RefCount()).To(Equal(int32(1)))
		Expect(h.Process().State()).To(Equal(StateIdle))
	})

	It("should start one unit after now when already due", func() {
		var startedAt, stoppedAt sim.VTime
		factory.EXPECT().NewThread(0, gomock.Any()).
			Return(newUnit(&startedAt, &stoppedAt))

		h := build(0, 0)
		Schedule(h)
		Expect(engine.Run()).To(Succeed())

		Expect(startedAt).To(Equal(sim.VTime(1)))
	})

	It("should fire due start and stop in submission order", func() {
		engine.ScheduleTask(sim.NewTask("advance", func(sim.VTime) {}, nil), 100)
		Expect(engine.Run()).To(Succeed())

		var startedAt, stoppedAt sim.VTime
		factory.EXPECT().NewThread(0, gomock.Any()).
			Return(newUnit(&startedAt, &stoppedAt))

		h := build(10, 20)
		Schedule(h)
		Expect(engine.Run()).To(Succeed())

		Expect(startedAt).To(Equal(sim.VTime(101)))
		Expect(stoppedAt).To(Equal(sim.VTime(101)))
		Expect(h.Process().IsRunning()).To(BeFalse())
	})

	It("should free the process once every holder is done", func() {
		var startedAt, stoppedAt sim.VTime
		factory.EXPECT().NewThread(0, gomock.Any()).
			Return(newUnit(&startedAt, &stoppedAt))

		h := build(10, 20)
		p := h.Process()
		Schedule(h)
		h.Release()

		Expect(p.IsFreed()).To(BeFalse())
		Expect(engine.Run()).To(Succeed())

		Expect(p.IsFreed()).To(BeTrue())
		Expect(objCounter.Get(counter.ObjectProcess, counter.CounterNew)).
			To(Equal(objCounter.Get(counter.ObjectProcess, counter.CounterFree)))
		Expect(objCounter.Leaks()).To(BeEmpty())
	})

	It("should release the process when pending tasks are dropped", func() {
		h := build(10, 20)
		p := h.Process()
		Schedule(h)
		h.Release()

		Expect(engine.Drain()).To(Equal(2))

		Expect(p.IsFreed()).To(BeTrue())
		Expect(p.ThreadCount()).To(BeZero())
		Expect(objCounter.Leaks()).To(BeEmpty())
	})
})
