package simulation

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vproc/config"
	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/datarecording"
	"github.com/sarchlab/vproc/host"
	"github.com/sarchlab/vproc/metrics"
	"github.com/sarchlab/vproc/monitoring"
	"github.com/sarchlab/vproc/plugins"
	"github.com/sarchlab/vproc/process"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/thread"
	"github.com/sarchlab/vproc/tracing"
	"github.com/sarchlab/vproc/worker"
)

// ErrMissingConfig is returned when a simulation is built without a
// configuration.
var ErrMissingConfig = errors.New("simulation requires a config")

// Builder can be used to build a simulation.
type Builder struct {
	cfg            *config.Config
	registry       *thread.Registry
	clock          process.Clock
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	outputFileName string
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithConfig sets the configuration the simulation is built from. The
// monitoring and recording sections of the configuration become the defaults
// of the builder.
func (b Builder) WithConfig(cfg *config.Config) Builder {
	b.cfg = cfg
	b.monitorOn = cfg.Monitoring.Enabled
	b.monitorPort = cfg.Monitoring.Port
	b.openBrowser = cfg.Monitoring.OpenBrowser
	b.outputFileName = cfg.Recording.Path

	return b
}

// WithRegistry sets the plugin registry. The built-in plugins are added to
// it.
func (b Builder) WithRegistry(r *thread.Registry) Builder {
	b.registry = r
	return b
}

// WithClock sets the clock processes measure execution time with.
func (b Builder) WithClock(c process.Clock) Builder {
	b.clock = c
	return b
}

// WithMonitoring turns on the monitoring server.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	b.monitorPort = 0
	b.openBrowser = false

	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
// An empty name disables recording.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	if b.cfg == nil {
		return nil, ErrMissingConfig
	}

	b.parametersMustBeValid()

	s := &Simulation{
		id:         xid.New().String(),
		cfg:        b.cfg,
		stopTime:   b.cfg.General.StopTime.VTime(),
		objCounter: counter.NewObjectCounter(),
		hostIndex:  make(map[string]int),
	}

	s.engine = sim.NewSerialEngine()
	if b.cfg.General.LogEvents {
		s.engine.AcceptHook(sim.NewEventLogger(nil))
	}
	s.worker = worker.New(s.engine, s.objCounter)

	s.registry = b.registry
	if s.registry == nil {
		s.registry = thread.NewRegistry()
	}
	plugins.Register(s.registry)
	s.registry.WithOutput(thread.OutputConfig{
		Dir: b.cfg.General.PluginOutputDir,
	})

	tracers := b.buildTracers(s)

	if b.monitorOn {
		b.buildMonitor(s)
		tracers = append(tracers, monitoring.NewProgressTracer(s.progress))
	}

	hook := tracing.NewHook(tracers)

	if err := b.buildHosts(s, hook); err != nil {
		s.abandon()
		return nil, err
	}

	if s.monitor != nil {
		s.progress.Total = uint64(s.processCount())
		for _, h := range s.hosts {
			s.monitor.RegisterHost(h)
		}
		s.monitor.StartServer()
	}

	s.scheduleHeartbeat(b.cfg.General.HeartbeatInterval.VTime())

	return s, nil
}

func (b Builder) buildTracers(s *Simulation) tracing.Tracers {
	s.execTracer = tracing.NewExecutionTimeTracer(nil)

	s.gatherer = prometheus.NewRegistry()
	collector, err := metrics.NewCollector(s.gatherer)
	if err != nil {
		panic(err)
	}
	s.metrics = collector

	tracers := tracing.Tracers{s.execTracer, s.metrics}

	if b.outputFileName != "" {
		s.dataRecorder = datarecording.New(b.outputFileName)
		s.execRecorder = datarecording.NewExecRecorder(s.dataRecorder)
		s.dbTracer = tracing.NewDBTracer(s.dataRecorder, nil)

		tracers = append(tracers, s.dbTracer)
	}

	return tracers
}

func (b Builder) buildMonitor(s *Simulation) {
	s.monitor = monitoring.NewMonitor()
	if b.monitorPort > 0 {
		s.monitor.WithPortNumber(b.monitorPort)
	}

	if b.openBrowser {
		s.monitor.WithBrowser()
	}

	s.monitor.RegisterEngine(s.engine)
	s.monitor.RegisterObjectCounter(s.objCounter)
	s.monitor.RegisterExecutionTimeTracer(s.execTracer)
	s.monitor.RegisterGatherer(s.gatherer)

	s.progress = s.monitor.CreateProgressBar("Processes", 0)
}

func (b Builder) buildHosts(s *Simulation, hook sim.Hook) error {
	cfg := b.cfg

	for i, name := range cfg.HostNames() {
		hc := cfg.Hosts[name]

		freq := hc.FrequencyKHz
		if freq == 0 {
			freq = cfg.CPU.FrequencyKHz
		}
		if freq == 0 {
			freq = host.DefaultFrequencyKHz
		}

		hb := host.MakeBuilder().
			WithWorker(s.worker).
			WithRegistry(s.registry).
			WithID(uint32(i)).
			WithCPUFrequency(freq).
			WithRawCPUFrequency(cfg.CPU.RawFrequencyKHz).
			WithCPUThreshold(cfg.CPU.Threshold.VTime()).
			WithCPUPrecision(cfg.CPU.Precision.VTime()).
			WithPreloadShim(cfg.General.PreloadShim).
			WithEnv(config.MergeEnv(cfg.General.Env, hc.Env)).
			WithProcessHook(hook)

		if b.clock != nil {
			hb = hb.WithClock(b.clock)
		}

		h := hb.Build(name)
		s.addHost(h)

		for _, pc := range hc.Processes {
			_, err := h.AddProcess(host.ProcessConfig{
				Plugin:             pc.Plugin,
				Path:               pc.Path,
				PreloadName:        pc.PreloadName,
				PreloadPath:        pc.PreloadPath,
				Arguments:          pc.Args,
				NaiveArgumentSplit: cfg.General.NaiveArgumentSplit,
				StartTime:          pc.StartTime.VTime(),
				StopTime:           pc.StopTime.VTime(),
				Env:                pc.Env,
			})
			if err != nil {
				return fmt.Errorf("host %s: %w", name, err)
			}
		}

		logrus.Debugf("host %s built with %d processes at %d KHz",
			name, len(hc.Processes), freq)
	}

	return nil
}
