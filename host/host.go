// Package host provides simulated hosts that run plugin processes.
package host

import (
	"fmt"
	"sync"

	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/cpu"
	"github.com/sarchlab/vproc/process"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/thread"
	"github.com/sarchlab/vproc/tracker"
	"github.com/sarchlab/vproc/worker"
)

// FirstProcessID is the id given to the first process of a host.
const FirstProcessID uint32 = 1000

// ProcessConfig describes a process to add to a host.
type ProcessConfig struct {
	Plugin             string
	Path               string
	PreloadName        string
	PreloadPath        string
	Arguments          string
	NaiveArgumentSplit bool
	StartTime          sim.VTime
	StopTime           sim.VTime
	Env                map[string]string
}

// Host is a simulated machine.
type Host struct {
	name     string
	id       uint32
	worker   *worker.Worker
	cpu      *cpu.CPU
	tracker  *tracker.Tracker
	registry *thread.Registry

	preloadShim string
	env         map[string]string
	clock       process.Clock
	hooks       []sim.Hook

	lock          sync.RWMutex
	nextProcessID uint32
	processes     []*process.Handle
	shutdown      bool
}

// Name returns the host name.
func (h *Host) Name() string {
	return h.name
}

// ID returns the host id.
func (h *Host) ID() uint32 {
	return h.id
}

// CPU returns the CPU that accumulates processing delay, brought up to the
// current virtual time.
func (h *Host) CPU() worker.DelayAccumulator {
	h.cpu.UpdateTime(h.worker.CurrentTime())
	return h.cpu
}

// Processor returns the CPU model of the host.
func (h *Host) Processor() *cpu.CPU {
	return h.cpu
}

// Tracker returns the processing time tracker.
func (h *Host) Tracker() worker.ProcessingTracker {
	return h.tracker
}

// ProcessingTracker returns the tracker of the host.
func (h *Host) ProcessingTracker() *tracker.Tracker {
	return h.tracker
}

// ScheduleTask schedules a task on the host. Processing delay that the CPU
// has built up beyond its threshold is added to the delay.
func (h *Host) ScheduleTask(task *sim.Task, delay sim.VTime) {
	h.cpu.UpdateTime(h.worker.CurrentTime())
	h.worker.ScheduleTask(task, delay+h.cpu.Delay())
}

// AddProcess builds a process on the host. The host holds a handle on the
// process until Shutdown.
func (h *Host) AddProcess(cfg ProcessConfig) (*process.Process, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.shutdown {
		return nil, fmt.Errorf("host %s: %w", h.name, ErrShutdown)
	}

	b := process.MakeBuilder().
		WithWorker(h.worker).
		WithHost(h).
		WithID(h.nextProcessID).
		WithStartTime(cfg.StartTime).
		WithStopTime(cfg.StopTime).
		WithPlugin(cfg.Plugin, cfg.Path).
		WithPreload(cfg.PreloadName, cfg.PreloadPath).
		WithArguments(cfg.Arguments).
		WithPreloadShim(h.preloadShim).
		WithEnv(mergeEnv(h.env, cfg.Env)).
		WithThreadFactory(h.registry.Factory(cfg.Path))

	if cfg.NaiveArgumentSplit {
		b = b.WithNaiveArgumentSplit()
	}

	if h.clock != nil {
		b = b.WithClock(h.clock)
	}

	for _, hook := range h.hooks {
		b = b.WithHook(hook)
	}

	handle, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("host %s: %w", h.name, err)
	}

	h.nextProcessID++
	h.processes = append(h.processes, handle)

	return handle.Process(), nil
}

// Processes returns the processes of the host in the order they were added.
func (h *Host) Processes() []*process.Process {
	h.lock.RLock()
	defer h.lock.RUnlock()

	out := make([]*process.Process, 0, len(h.processes))
	for _, handle := range h.processes {
		out = append(out, handle.Process())
	}

	return out
}

// Boot schedules the lifecycle tasks of every process. It returns the number
// of tasks scheduled.
func (h *Host) Boot() int {
	h.lock.RLock()
	handles := append([]*process.Handle(nil), h.processes...)
	h.lock.RUnlock()

	n := 0
	for _, handle := range handles {
		n += process.Schedule(handle)
	}

	return n
}

// Shutdown gives up the handles the host holds. Processes still referenced by
// pending tasks live on until those tasks retire.
func (h *Host) Shutdown() {
	h.lock.Lock()
	if h.shutdown {
		h.lock.Unlock()
		return
	}

	h.shutdown = true
	handles := h.processes
	h.processes = nil
	h.lock.Unlock()

	for _, handle := range handles {
		handle.Release()
	}

	h.worker.CountObject(counter.ObjectHost, counter.CounterFree)
}

func mergeEnv(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}

	return out
}

var _ process.Host = (*Host)(nil)
