// Package simulation assembles hosts, processes and the supporting services
// into one runnable simulation.
package simulation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vproc/config"
	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/datarecording"
	"github.com/sarchlab/vproc/host"
	"github.com/sarchlab/vproc/metrics"
	"github.com/sarchlab/vproc/monitoring"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/thread"
	"github.com/sarchlab/vproc/tracing"
	"github.com/sarchlab/vproc/worker"
)

// ErrAlreadyRun is returned when Run is called a second time.
var ErrAlreadyRun = errors.New("simulation already run")

// A Simulation owns the engine, the hosts and the services that observe them.
type Simulation struct {
	id       string
	cfg      *config.Config
	stopTime sim.VTime

	engine     *sim.SerialEngine
	worker     *worker.Worker
	objCounter *counter.ObjectCounter
	registry   *thread.Registry

	hosts     []*host.Host
	hostIndex map[string]int

	execTracer   *tracing.ExecutionTimeTracer
	metrics      *metrics.Collector
	gatherer     *prometheus.Registry
	dataRecorder datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	dbTracer     *tracing.DBTracer
	monitor      *monitoring.Monitor
	progress     *monitoring.ProgressBar

	lock       sync.Mutex
	ran        bool
	terminated bool
	leaks      []counter.ObjectType
}

// ID returns the unique id of the simulation run.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetWorker returns the worker driving the processes.
func (s *Simulation) GetWorker() *worker.Worker {
	return s.worker
}

// GetObjectCounter returns the counter of live simulation objects.
func (s *Simulation) GetObjectCounter() *counter.ObjectCounter {
	return s.objCounter
}

// GetRegistry returns the plugin registry.
func (s *Simulation) GetRegistry() *thread.Registry {
	return s.registry
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// when recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetExecutionTimeTracer returns the tracer that totals process run times.
func (s *Simulation) GetExecutionTimeTracer() *tracing.ExecutionTimeTracer {
	return s.execTracer
}

// GetGatherer returns the registry holding the simulation metrics.
func (s *Simulation) GetGatherer() prometheus.Gatherer {
	return s.gatherer
}

// Hosts returns all hosts in name order.
func (s *Simulation) Hosts() []*host.Host {
	return s.hosts
}

// GetHostByName returns the host with the given name, or nil.
func (s *Simulation) GetHostByName(name string) *host.Host {
	i, ok := s.hostIndex[name]
	if !ok {
		return nil
	}

	return s.hosts[i]
}

func (s *Simulation) addHost(h *host.Host) {
	if _, ok := s.hostIndex[h.Name()]; ok {
		panic("host " + h.Name() + " already registered")
	}

	s.hosts = append(s.hosts, h)
	s.hostIndex[h.Name()] = len(s.hosts) - 1

	s.engine.RegisterSimulationEndHandler(h.ProcessingTracker())
}

func (s *Simulation) processCount() int {
	n := 0
	for _, h := range s.hosts {
		n += len(h.Processes())
	}

	return n
}

// scheduleHeartbeat makes every host tracker log its interval statistics
// periodically until the stop time.
func (s *Simulation) scheduleHeartbeat(interval sim.VTime) {
	if interval == 0 || s.stopTime == 0 {
		return
	}

	var beat sim.TaskCallback
	beat = func(now sim.VTime) {
		for _, h := range s.hosts {
			h.ProcessingTracker().Heartbeat(now)
		}

		if now+interval <= s.stopTime {
			s.engine.ScheduleTask(sim.NewTask("heartbeat", beat, nil), interval)
		}
	}

	if interval <= s.stopTime {
		s.engine.ScheduleTask(sim.NewTask("heartbeat", beat, nil), interval)
	}
}

// Run boots every host and processes events until the stop time, or until no
// event is left when no stop time is set.
func (s *Simulation) Run() error {
	s.lock.Lock()
	if s.ran {
		s.lock.Unlock()
		return ErrAlreadyRun
	}
	s.ran = true
	s.lock.Unlock()

	if s.execRecorder != nil {
		s.execRecorder.Start()
		s.execRecorder.Set("Simulation ID", s.id)
		s.execRecorder.Set("Hosts", strings.Join(s.cfg.HostNames(), ","))
	}

	tasks := 0
	for _, h := range s.hosts {
		tasks += h.Boot()
	}

	logrus.Infof("booted %d hosts with %d processes, %d lifecycle tasks",
		len(s.hosts), s.processCount(), tasks)

	until := sim.VTimeInvalid
	if s.stopTime > 0 {
		until = s.stopTime
	}

	if err := s.engine.RunUntil(until); err != nil {
		return fmt.Errorf("running engine: %w", err)
	}

	s.engine.Finished()

	logrus.Infof("simulation finished at %.9f seconds",
		s.engine.CurrentTime().Seconds())

	return nil
}

// Terminate drops pending events, shuts the hosts down and closes the
// recorder. Objects still alive afterwards are reported as leaks.
func (s *Simulation) Terminate() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.terminated {
		return nil
	}
	s.terminated = true

	dropped := s.engine.Drain()
	if dropped > 0 {
		logrus.Debugf("dropped %d pending events", dropped)
	}

	for _, h := range s.hosts {
		h.Shutdown()
	}

	s.leaks = s.objCounter.Leaks()
	if len(s.leaks) > 0 {
		logrus.Warnf("objects leaked: %v\n%s", s.leaks, s.objCounter)
	}

	if s.monitor != nil {
		s.monitor.CompleteProgressBar(s.progress)
	}

	return s.closeRecorder()
}

func (s *Simulation) closeRecorder() error {
	if s.dataRecorder == nil {
		return nil
	}

	s.execRecorder.Set("Plugin Errors",
		strconv.FormatUint(s.worker.PluginErrors(), 10))
	s.execRecorder.End()
	s.dbTracer.Terminate()

	if err := s.dataRecorder.Close(); err != nil {
		return fmt.Errorf("closing recorder: %w", err)
	}

	return nil
}

// abandon releases what a half-built simulation holds.
func (s *Simulation) abandon() {
	for _, h := range s.hosts {
		h.Shutdown()
	}

	if s.dataRecorder != nil {
		_ = s.dataRecorder.Close()
	}
}

// Leaks returns the object types that were still alive after Terminate.
func (s *Simulation) Leaks() []counter.ObjectType {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.leaks
}

// PluginErrors returns how many processes exited with a non-zero code.
func (s *Simulation) PluginErrors() uint64 {
	return s.worker.PluginErrors()
}
