package process

import (
	"errors"
	"fmt"

	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/thread"
	"github.com/sarchlab/vproc/worker"
)

// Errors returned by Build.
var (
	ErrMissingPluginName    = errors.New("process: missing plugin name")
	ErrMissingPluginPath    = errors.New("process: missing plugin path")
	ErrMissingWorker        = errors.New("process: missing worker")
	ErrMissingHost          = errors.New("process: missing host")
	ErrMissingThreadFactory = errors.New("process: missing thread factory")
	ErrInvalidArguments     = errors.New("process: invalid arguments")
)

// A Builder can build processes.
type Builder struct {
	worker        *worker.Worker
	host          Host
	id            uint32
	startTime     sim.VTime
	stopTime      sim.VTime
	hostName      string
	pluginName    string
	pluginPath    string
	preloadName   string
	preloadPath   string
	arguments     string
	naiveSplit    bool
	preloadShim   string
	env           map[string]string
	threadFactory thread.Factory
	sys           thread.SysCallHandler
	clock         Clock
	hooks         []sim.Hook
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		clock: RealClock(),
	}
}

// WithWorker sets the worker the process runs on.
func (b Builder) WithWorker(w *worker.Worker) Builder {
	b.worker = w
	return b
}

// WithHost sets the host the process runs on.
func (b Builder) WithHost(h Host) Builder {
	b.host = h
	return b
}

// WithID sets the process id.
func (b Builder) WithID(id uint32) Builder {
	b.id = id
	return b
}

// WithStartTime sets when the process starts.
func (b Builder) WithStartTime(t sim.VTime) Builder {
	b.startTime = t
	return b
}

// WithStopTime sets when the process stops. Zero lets it run to completion.
func (b Builder) WithStopTime(t sim.VTime) Builder {
	b.stopTime = t
	return b
}

// WithHostName sets the host name used in the process name. By default the
// name of the host is used.
func (b Builder) WithHostName(name string) Builder {
	b.hostName = name
	return b
}

// WithPlugin sets the plugin to run.
func (b Builder) WithPlugin(name, path string) Builder {
	b.pluginName = name
	b.pluginPath = path

	return b
}

// WithPreload sets the plugin-specific library to preload.
func (b Builder) WithPreload(name, path string) Builder {
	b.preloadName = name
	b.preloadPath = path

	return b
}

// WithArguments sets the argument string passed to the plugin.
func (b Builder) WithArguments(arguments string) Builder {
	b.arguments = arguments
	return b
}

// WithNaiveArgumentSplit splits the arguments on single spaces instead of
// lexing them like a shell.
func (b Builder) WithNaiveArgumentSplit() Builder {
	b.naiveSplit = true
	return b
}

// WithPreloadShim sets the interposition library that is always preloaded.
func (b Builder) WithPreloadShim(path string) Builder {
	b.preloadShim = path
	return b
}

// WithEnv sets extra environment variables.
func (b Builder) WithEnv(env map[string]string) Builder {
	b.env = env
	return b
}

// WithThreadFactory sets how threads are created.
func (b Builder) WithThreadFactory(f thread.Factory) Builder {
	b.threadFactory = f
	return b
}

// WithSysCallHandler sets the syscall handler. By default a new
// thread.Handler is created.
func (b Builder) WithSysCallHandler(sys thread.SysCallHandler) Builder {
	b.sys = sys
	return b
}

// WithClock sets the clock used to measure execution time.
func (b Builder) WithClock(c Clock) Builder {
	b.clock = c
	return b
}

// WithHook registers a hook on the process.
func (b Builder) WithHook(h sim.Hook) Builder {
	b.hooks = append(b.hooks, h)
	return b
}

// Build creates the process and returns the first handle on it.
func (b Builder) Build() (*Handle, error) {
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("building process %d: %w", b.id, err)
	}

	argv, err := buildArgv(b.pluginPath, b.arguments, b.naiveSplit)
	if err != nil {
		return nil, fmt.Errorf("building process %d: %w", b.id, err)
	}

	clock := b.clock
	if clock == nil {
		clock = RealClock()
	}

	hostName := b.hostName
	if hostName == "" {
		hostName = b.host.Name()
	}

	p := &Process{
		id:          b.id,
		name:        fmt.Sprintf("%s.%s.%d", hostName, b.pluginName, b.id),
		hostName:    hostName,
		pluginName:  b.pluginName,
		pluginPath:  b.pluginPath,
		preloadName: b.preloadName,
		preloadPath: b.preloadPath,
		startTime:   b.startTime,
		stopTime:    b.stopTime,
		argv:        argv,
		envv:        buildEnvv(b.preloadShim, b.preloadPath, b.env),
		worker:      b.worker,
		host:        b.host,
		factory:     b.threadFactory,
		clock:       clock,
	}
	p.refCount.Store(1)

	for _, h := range b.hooks {
		p.AcceptHook(h)
	}

	b.attachSysCallHandler(p, hostName)

	b.worker.CountObject(counter.ObjectProcess, counter.CounterNew)

	return &Handle{process: p}, nil
}

func (b Builder) validate() error {
	switch {
	case b.pluginName == "":
		return ErrMissingPluginName
	case b.pluginPath == "":
		return ErrMissingPluginPath
	case b.worker == nil:
		return ErrMissingWorker
	case b.host == nil:
		return ErrMissingHost
	case b.threadFactory == nil:
		return ErrMissingThreadFactory
	}

	return nil
}

func (b Builder) attachSysCallHandler(p *Process, hostName string) {
	if b.sys != nil {
		p.SetSysCallHandler(b.sys)
		return
	}

	h := thread.NewHandler(hostName, b.worker.Counter())
	h.SetWaker(p)
	p.SetSysCallHandler(h)
	h.Release()
}
