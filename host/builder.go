package host

import (
	"errors"

	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/cpu"
	"github.com/sarchlab/vproc/process"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/thread"
	"github.com/sarchlab/vproc/tracker"
	"github.com/sarchlab/vproc/worker"
)

// ErrShutdown is returned when adding processes to a host that is shut down.
var ErrShutdown = errors.New("host is shut down")

// DefaultFrequencyKHz is the CPU frequency of hosts that do not set one.
const DefaultFrequencyKHz uint64 = 2_000_000

// Builder can build hosts.
type Builder struct {
	worker          *worker.Worker
	registry        *thread.Registry
	id              uint32
	frequencyKHz    uint64
	rawFrequencyKHz uint64
	threshold       sim.VTime
	precision       sim.VTime
	preloadShim     string
	env             map[string]string
	clock           process.Clock
	hooks           []sim.Hook
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		frequencyKHz: DefaultFrequencyKHz,
	}
}

// WithWorker sets the worker.
func (b Builder) WithWorker(w *worker.Worker) Builder {
	b.worker = w
	return b
}

// WithRegistry sets where plugin threads come from.
func (b Builder) WithRegistry(r *thread.Registry) Builder {
	b.registry = r
	return b
}

// WithID sets the host id.
func (b Builder) WithID(id uint32) Builder {
	b.id = id
	return b
}

// WithCPUFrequency sets the simulated CPU frequency in KHz.
func (b Builder) WithCPUFrequency(khz uint64) Builder {
	b.frequencyKHz = khz
	return b
}

// WithRawCPUFrequency sets the frequency of the machine running the
// simulation. Zero means the same as the simulated one.
func (b Builder) WithRawCPUFrequency(khz uint64) Builder {
	b.rawFrequencyKHz = khz
	return b
}

// WithCPUThreshold sets how much delay the CPU builds up before it holds
// back events.
func (b Builder) WithCPUThreshold(t sim.VTime) Builder {
	b.threshold = t
	return b
}

// WithCPUPrecision sets the rounding of CPU delay.
func (b Builder) WithCPUPrecision(p sim.VTime) Builder {
	b.precision = p
	return b
}

// WithPreloadShim sets the interposition library every process preloads.
func (b Builder) WithPreloadShim(path string) Builder {
	b.preloadShim = path
	return b
}

// WithEnv sets environment variables shared by all processes of the host.
func (b Builder) WithEnv(env map[string]string) Builder {
	b.env = env
	return b
}

// WithClock sets the clock processes measure execution time with.
func (b Builder) WithClock(c process.Clock) Builder {
	b.clock = c
	return b
}

// WithProcessHook registers a hook on every process of the host.
func (b Builder) WithProcessHook(h sim.Hook) Builder {
	b.hooks = append(b.hooks, h)
	return b
}

// Build creates a host.
func (b Builder) Build(name string) *Host {
	if b.worker == nil {
		panic("host requires a worker")
	}

	registry := b.registry
	if registry == nil {
		registry = thread.NewRegistry()
	}

	h := &Host{
		name:     name,
		id:       b.id,
		worker:   b.worker,
		cpu:      cpu.New(b.frequencyKHz, b.rawFrequencyKHz, b.threshold, b.precision),
		tracker:  tracker.New(name),
		registry: registry,

		preloadShim: b.preloadShim,
		env:         b.env,
		clock:       b.clock,
		hooks:       append([]sim.Hook(nil), b.hooks...),

		nextProcessID: FirstProcessID,
	}

	b.worker.CountObject(counter.ObjectHost, counter.CounterNew)

	return h
}
