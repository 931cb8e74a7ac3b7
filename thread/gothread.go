package thread

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vproc/sim"
)

// PluginFunc is a plugin compiled into the simulator. It returns the exit
// code of the plugin.
type PluginFunc func(env *Env) int

// A GoThread runs a PluginFunc on its own goroutine. Control is handed back
// and forth so that exactly one side runs at a time: the simulator is blocked
// while the plugin runs, and the plugin is parked while the simulator runs.
type GoThread struct {
	id     int
	plugin PluginFunc
	sys    SysCallHandler
	output OutputConfig

	// ctx is the activation of the call currently driving the plugin.
	ctx Context

	started    bool
	exited     bool
	terminated bool
	released   bool
	returnCode int

	yieldCh  chan struct{}
	resumeCh chan struct{}

	stdout io.WriteCloser
	stderr io.WriteCloser
}

// NewGoThread creates a thread that will run plugin.
func NewGoThread(
	id int,
	plugin PluginFunc,
	sys SysCallHandler,
	output OutputConfig,
) *GoThread {
	if plugin == nil {
		log.Panic("go thread requires a plugin")
	}

	return &GoThread{
		id:       id,
		plugin:   plugin,
		sys:      sys,
		output:   output,
		yieldCh:  make(chan struct{}),
		resumeCh: make(chan struct{}),
	}
}

// ID returns the thread id.
func (t *GoThread) ID() int {
	return t.id
}

// Run starts the plugin and blocks until it yields or exits.
func (t *GoThread) Run(ctx Context, argv, envv []string) {
	if t.started {
		log.Panicf("thread %d already started", t.id)
	}

	t.started = true
	t.ctx = ctx
	t.stdout, t.stderr = t.output.Writers(ctx.ProcessName())

	env := &Env{
		thread: t,
		args:   append([]string(nil), argv...),
		env:    append([]string(nil), envv...),
	}

	go t.main(env)

	<-t.yieldCh
}

func (t *GoThread) main(env *Env) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Warnf("plugin of process '%s' panicked: %v",
				t.ctx.ProcessName(), r)
			t.returnCode = 1
		}

		t.exited = true
		closeAll(t.stdout, t.stderr)
		t.yieldCh <- struct{}{}
	}()

	t.returnCode = t.plugin(env)
}

// Resume lets a blocked plugin continue until it yields again or exits.
func (t *GoThread) Resume(ctx Context) {
	if !t.IsRunning() {
		return
	}

	t.ctx = ctx
	t.resumeCh <- struct{}{}
	<-t.yieldCh
}

// Terminate wakes the plugin with ErrTerminated and waits for it to return.
func (t *GoThread) Terminate(ctx Context) {
	if !t.IsRunning() {
		return
	}

	t.terminated = true
	t.ctx = ctx
	t.resumeCh <- struct{}{}
	<-t.yieldCh
}

// IsRunning tells if the plugin started and has not returned.
func (t *GoThread) IsRunning() bool {
	return t.started && !t.exited
}

// ReturnCode returns what the plugin returned.
func (t *GoThread) ReturnCode() int {
	return t.returnCode
}

// Release ends a plugin that is still parked. The thread cannot be used
// afterwards.
func (t *GoThread) Release() {
	if t.released {
		return
	}

	t.released = true
	if t.IsRunning() {
		t.Terminate(t.ctx)
	}
}

// yield parks the plugin goroutine until the simulator resumes it.
func (t *GoThread) yield() error {
	if t.terminated {
		return ErrTerminated
	}

	t.yieldCh <- struct{}{}
	<-t.resumeCh

	if t.terminated {
		return ErrTerminated
	}

	return nil
}

// Env is what a PluginFunc sees of the simulated process it runs in.
type Env struct {
	thread *GoThread
	args   []string
	env    []string
}

// Args returns the argument vector. Args()[0] is the plugin path.
func (e *Env) Args() []string {
	return e.args
}

// Environ returns the environment as KEY=VALUE strings.
func (e *Env) Environ() []string {
	return e.env
}

// Getenv returns the value of the environment variable key.
func (e *Env) Getenv(key string) string {
	prefix := key + "="
	for _, kv := range e.env {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):]
		}
	}

	return ""
}

// Now returns the current virtual time.
func (e *Env) Now() sim.VTime {
	e.syscall("clock_gettime")
	return e.thread.ctx.Now()
}

// HostName returns the name of the simulated host.
func (e *Env) HostName() string {
	e.syscall("uname")
	return e.thread.ctx.HostName()
}

// Yield blocks until the simulator resumes the process.
func (e *Env) Yield() error {
	e.syscall("sched_yield")
	return e.thread.yield()
}

// Sleep blocks for delay of virtual time.
func (e *Env) Sleep(delay sim.VTime) error {
	if e.thread.terminated {
		return ErrTerminated
	}

	if e.thread.sys != nil {
		e.thread.sys.Sleep(e.thread.ctx, delay)
	}

	return e.thread.yield()
}

// Printf writes to the stdout of the process.
func (e *Env) Printf(format string, args ...any) {
	e.syscall("write")
	e.write(e.thread.stdout, logrus.DebugLevel, format, args...)
}

// Errorf writes to the stderr of the process.
func (e *Env) Errorf(format string, args ...any) {
	e.syscall("write")
	e.write(e.thread.stderr, logrus.WarnLevel, format, args...)
}

func (e *Env) write(
	w io.Writer,
	level logrus.Level,
	format string,
	args ...any,
) {
	msg := fmt.Sprintf(format, args...)
	if w != nil {
		_, _ = io.WriteString(w, msg)
		return
	}

	logrus.WithField("process", e.thread.ctx.ProcessName()).
		Log(level, strings.TrimRight(msg, "\n"))
}

func (e *Env) syscall(name string) {
	if e.thread.sys != nil {
		e.thread.sys.Syscall(e.thread.ctx, name)
	}
}
