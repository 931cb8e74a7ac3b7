package process

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/worker"
)

var _ = Describe("Builder", func() {
	var (
		mockCtrl   *gomock.Controller
		host       *MockHost
		factory    *MockFactory
		objCounter *counter.ObjectCounter
		w          *worker.Worker
		builder    Builder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		host = NewMockHost(mockCtrl)
		host.EXPECT().Name().Return("node").AnyTimes()
		factory = NewMockFactory(mockCtrl)
		objCounter = counter.NewObjectCounter()
		w = worker.New(sim.NewSerialEngine(), objCounter)

		builder = MakeBuilder().
			WithWorker(w).
			WithHost(host).
			WithThreadFactory(factory).
			WithID(1).
			WithPlugin("echo", "/bin/echo")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should name the process after host, plugin and id", func() {
		h, err := builder.Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Process().Name()).To(Equal("node.echo.1"))
		Expect(h.Process().RefCount()).To(Equal(int32(1)))
		Expect(h.Process().State()).To(Equal(StateIdle))
		Expect(objCounter.Live(counter.ObjectProcess)).To(Equal(int64(1)))
	})

	It("should prefer the configured host name", func() {
		h, err := builder.WithHostName("server").WithID(7).Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Process().Name()).To(Equal("server.echo.7"))
	})

	DescribeTable("should refuse incomplete configurations",
		func(modify func(Builder) Builder, expected error) {
			h, err := modify(builder).Build()

			Expect(h).To(BeNil())
			Expect(err).To(MatchError(expected))
			Expect(objCounter.Live(counter.ObjectProcess)).To(BeZero())
		},
		Entry("no plugin name", func(b Builder) Builder {
			return b.WithPlugin("", "/bin/echo")
		}, ErrMissingPluginName),
		Entry("no plugin path", func(b Builder) Builder {
			return b.WithPlugin("echo", "")
		}, ErrMissingPluginPath),
		Entry("no worker", func(b Builder) Builder {
			return b.WithWorker(nil)
		}, ErrMissingWorker),
		Entry("no host", func(b Builder) Builder {
			return b.WithHost(nil)
		}, ErrMissingHost),
		Entry("no thread factory", func(b Builder) Builder {
			return b.WithThreadFactory(nil)
		}, ErrMissingThreadFactory),
		Entry("unbalanced quotes", func(b Builder) Builder {
			return b.WithArguments(`"hello`)
		}, ErrInvalidArguments),
	)

	It("should prefix the plugin path to the arguments", func() {
		h, err := builder.WithArguments("hello").Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Process().Argv()).To(Equal([]string{"/bin/echo", "hello"}))
	})

	It("should keep quoted arguments together", func() {
		h, err := builder.WithArguments(`-n "hello world" 'a b'`).Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Process().Argv()).To(Equal(
			[]string{"/bin/echo", "-n", "hello world", "a b"}))
	})

	It("should split on single spaces in naive mode", func() {
		h, err := builder.
			WithNaiveArgumentSplit().
			WithArguments(`a  "b c"`).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Process().Argv()).To(Equal(
			[]string{"/bin/echo", "a", "", `"b`, `c"`}))
	})

	It("should keep an empty trailing token in naive mode", func() {
		h, err := builder.WithNaiveArgumentSplit().Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Process().Argv()).To(Equal([]string{"/bin/echo", ""}))
	})

	It("should only set the spawn marker by default", func() {
		h, err := builder.Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Process().Envv()).To(Equal([]string{"VPROC_SPAWNED=TRUE"}))
	})

	It("should chain the shim and the plugin preload", func() {
		h, err := builder.
			WithPreloadShim("/opt/vproc/libshim.so").
			WithPreload("extra", "/opt/lib/libextra.so").
			WithEnv(map[string]string{
				"ZED":           "1",
				"ALPHA":         "2",
				"VPROC_SPAWNED": "FALSE",
			}).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Process().PreloadName()).To(Equal("extra"))
		Expect(h.Process().Envv()).To(Equal([]string{
			"VPROC_SPAWNED=TRUE",
			"LD_PRELOAD=/opt/vproc/libshim.so:/opt/lib/libextra.so",
			"ALPHA=2",
			"ZED=1",
		}))
	})

	It("should retain the given syscall handler", func() {
		sys := NewMockSysCallHandler(mockCtrl)
		sys.EXPECT().Retain()

		h, err := builder.WithSysCallHandler(sys).Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Process().SysCallHandler()).To(BeIdenticalTo(sys))
	})

	It("should not want notifications", func() {
		h, err := builder.Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Process().WantsNotify(3)).To(BeFalse())
	})
})
