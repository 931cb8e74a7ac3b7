package simulation

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vproc/config"
	"github.com/sarchlab/vproc/datarecording"
	"github.com/sarchlab/vproc/tracing"
)

const twoHostConfig = `
general:
  stop_time: 10s
  heartbeat_interval: 2s
hosts:
  alpha:
    processes:
      - plugin: echo
        path: builtin/echo
        args: hello world
        start_time: 1s
      - plugin: fail
        path: builtin/fail
        args: "3"
        start_time: 2s
  beta:
    processes:
      - plugin: sleep
        path: builtin/sleep
        args: 1h
        start_time: 1s
        stop_time: 5s
`

func mustParse(yaml string) *config.Config {
	cfg, err := config.Parse([]byte(yaml), "")
	Expect(err).NotTo(HaveOccurred())

	return cfg
}

var _ = Describe("Simulation", func() {
	var (
		cfg        *config.Config
		simulation *Simulation
	)

	BeforeEach(func() {
		cfg = mustParse(twoHostConfig)
		simulation = nil
	})

	AfterEach(func() {
		if simulation != nil {
			Expect(simulation.Terminate()).To(Succeed())
		}
	})

	It("should refuse to build without a config", func() {
		_, err := MakeBuilder().Build()

		Expect(err).To(MatchError(ErrMissingConfig))
	})

	It("should build one host per config entry", func() {
		var err error
		simulation, err = MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.Hosts()).To(HaveLen(2))
		Expect(simulation.GetHostByName("alpha").Processes()).To(HaveLen(2))
		Expect(simulation.GetHostByName("beta").Processes()).To(HaveLen(1))
		Expect(simulation.GetHostByName("gamma")).To(BeNil())
		Expect(simulation.GetMonitor()).To(BeNil())
		Expect(simulation.GetDataRecorder()).To(BeNil())
		Expect(simulation.GetRegistry().Paths()).To(ContainElement("builtin/echo"))
	})

	It("should run every process to completion", func() {
		var err error
		simulation, err = MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.Run()).To(Succeed())

		tracer := simulation.GetExecutionTimeTracer()

		echo, ok := tracer.Summary("alpha.echo.1000")
		Expect(ok).To(BeTrue())
		Expect(echo.Completed).To(BeTrue())
		Expect(echo.ReturnCode).To(Equal(0))

		fail, ok := tracer.Summary("alpha.fail.1001")
		Expect(ok).To(BeTrue())
		Expect(fail.ReturnCode).To(Equal(3))

		sleep, ok := tracer.Summary("beta.sleep.1000")
		Expect(ok).To(BeTrue())
		Expect(sleep.Completed).To(BeTrue())
		Expect(sleep.ReturnCode).To(Equal(143))

		Expect(simulation.PluginErrors()).To(Equal(uint64(2)))
		Expect(simulation.GetEngine().CurrentTime().Seconds()).
			To(BeNumerically("<=", 10))
	})

	It("should not run twice", func() {
		var err error
		simulation, err = MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.Run()).To(Succeed())
		Expect(simulation.Run()).To(MatchError(ErrAlreadyRun))
	})

	It("should free every object on terminate", func() {
		var err error
		simulation, err = MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.Run()).To(Succeed())
		Expect(simulation.Terminate()).To(Succeed())

		Expect(simulation.Leaks()).To(BeEmpty())
		Expect(simulation.GetEngine().Pending()).To(Equal(0))
	})

	It("should free processes that never got to run", func() {
		var err error
		simulation, err = MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.Terminate()).To(Succeed())

		Expect(simulation.Leaks()).To(BeEmpty())
	})

	It("should not count processes cut off at the stop time as errors", func() {
		cfg.Hosts["gamma"] = config.HostConfig{
			Processes: []config.ProcessConfig{{
				Plugin:    "sleep",
				Path:      "builtin/sleep",
				Args:      "1h",
				StartTime: config.Duration(1e9),
			}},
		}

		var err error
		simulation, err = MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.Run()).To(Succeed())
		Expect(simulation.Terminate()).To(Succeed())

		Expect(simulation.PluginErrors()).To(Equal(uint64(2)))
		Expect(simulation.Leaks()).To(BeEmpty())
	})

	It("should export metrics", func() {
		var err error
		simulation, err = MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.Run()).To(Succeed())

		mfs, err := simulation.GetGatherer().Gather()
		Expect(err).NotTo(HaveOccurred())

		names := []string{}
		for _, mf := range mfs {
			names = append(names, mf.GetName())
		}
		Expect(names).To(ContainElements(
			"vproc_process_starts_total",
			"vproc_plugin_errors_total",
		))
	})

	It("should report bad process configurations", func() {
		cfg.Hosts["beta"] = config.HostConfig{
			Processes: []config.ProcessConfig{{Plugin: "broken"}},
		}

		var err error
		_, err = MakeBuilder().WithConfig(cfg).Build()

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("host beta"))
	})

	It("should record lifecycle transitions", func() {
		path := filepath.Join(GinkgoT().TempDir(), "run")

		var err error
		simulation, err = MakeBuilder().
			WithConfig(cfg).
			WithOutputFileName(path).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.Run()).To(Succeed())
		Expect(simulation.Terminate()).To(Succeed())

		reader, err := datarecording.NewReader(path)
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		reader.MapTable(tracing.LifecycleTable, tracing.LifecycleEntry{})
		reader.MapTable(datarecording.ExecInfoTable, datarecording.ExecInfo{})

		rows, _, err := reader.Query(context.Background(),
			tracing.LifecycleTable, datarecording.QueryParams{
				Where: "Kind = ? AND Process = ?",
				Args:  []any{string(tracing.KindComplete), "alpha.fail.1001"},
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].(*tracing.LifecycleEntry).ReturnCode).To(Equal(3))

		_, infoCount, err := reader.Query(context.Background(),
			datarecording.ExecInfoTable, datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(infoCount).To(BeNumerically(">=", 4))
	})
})
