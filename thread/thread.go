// Package thread provides the execution units that run plugin code on behalf
// of simulated processes.
//
// A Thread is driven by its process: Run starts the plugin and returns when
// the plugin either finishes or blocks waiting for a simulated event; Resume
// lets a blocked plugin continue; Terminate ends it. None of these calls
// advance virtual time.
package thread

import (
	"errors"

	"github.com/sarchlab/vproc/sim"
)

// ErrTerminated is returned to plugin code that blocks after its thread has
// been terminated.
var ErrTerminated = errors.New("thread: terminated")

// Context describes the activation a thread runs under. It is only valid for
// the duration of the call it is passed to.
type Context interface {
	Now() sim.VTime
	HostName() string
	ProcessName() string
}

// A SysCallHandler serves the calls plugin code makes into the simulator.
// Handlers are reference counted; every holder retains it once.
type SysCallHandler interface {
	Retain()
	Release()

	// Syscall records that the plugin made the named call.
	Syscall(ctx Context, name string)

	// Sleep arranges for the calling process to be continued after delay.
	Sleep(ctx Context, delay sim.VTime)
}

// A Thread is a resumable unit of real execution bound to one process.
type Thread interface {
	// ID returns the thread id assigned by the process.
	ID() int

	// Run starts the plugin with the given arguments and environment.
	Run(ctx Context, argv, envv []string)

	// Resume continues a plugin that is blocked.
	Resume(ctx Context)

	// Terminate stops the plugin.
	Terminate(ctx Context)

	// IsRunning tells if the plugin has started and not finished.
	IsRunning() bool

	// ReturnCode returns the exit code of a finished plugin.
	ReturnCode() int

	// Release frees the resources held by the thread.
	Release()
}

// A Factory creates threads.
type Factory interface {
	NewThread(id int, sys SysCallHandler) Thread
}

// FactoryFunc adapts a function into a Factory.
type FactoryFunc func(id int, sys SysCallHandler) Thread

// NewThread calls f.
func (f FactoryFunc) NewThread(id int, sys SysCallHandler) Thread {
	return f(id, sys)
}
