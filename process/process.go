// Package process implements simulated processes whose code runs for real.
//
// A Process is owned through Handles. The host that builds a process holds
// one handle, and every pending lifecycle task holds another, so that the
// process outlives everything that may still call into it. The process is
// freed when the last handle is released.
//
// The process never decides when to start, continue or stop. Lifecycle tasks
// and wakeups drive it; each drive activates the process on its worker, runs
// the plugin until it finishes or blocks, and bills the real time it took to
// the host CPU.
package process

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/thread"
	"github.com/sarchlab/vproc/worker"
)

// Host is the simulated host a process runs on.
type Host interface {
	worker.Host

	// ScheduleTask schedules a task on behalf of the host. The host may add
	// the delay its CPU has built up.
	ScheduleTask(task *sim.Task, delay sim.VTime)
}

// Process is a simulated process backed by a plugin.
type Process struct {
	sim.HookableBase

	id          uint32
	name        string
	hostName    string
	pluginName  string
	pluginPath  string
	preloadName string
	preloadPath string

	startTime sim.VTime
	stopTime  sim.VTime

	argv []string
	envv []string

	worker  *worker.Worker
	host    Host
	factory thread.Factory
	clock   Clock
	sys     thread.SysCallHandler

	state            State
	totalRunTime     float64
	didLogReturnCode bool
	returnCode       int
	threadIDCounter  int
	mainThread       thread.Thread

	refCount atomic.Int32
	freed    atomic.Bool
}

// ID returns the process id.
func (p *Process) ID() uint32 {
	return p.id
}

// Name returns the name of the process, in the form host.plugin.id.
func (p *Process) Name() string {
	return p.name
}

// HostName returns the name of the host the process belongs to.
func (p *Process) HostName() string {
	return p.hostName
}

// PluginName returns the name of the plugin.
func (p *Process) PluginName() string {
	return p.pluginName
}

// PluginPath returns the path of the plugin.
func (p *Process) PluginPath() string {
	return p.pluginPath
}

// PreloadName returns the name of the plugin-specific preload library.
func (p *Process) PreloadName() string {
	return p.preloadName
}

// PreloadPath returns the path of the plugin-specific preload library.
func (p *Process) PreloadPath() string {
	return p.preloadPath
}

// StartTime returns when the process is scheduled to start.
func (p *Process) StartTime() sim.VTime {
	return p.startTime
}

// StopTime returns when the process is scheduled to stop. Zero means the
// process runs until it completes.
func (p *Process) StopTime() sim.VTime {
	return p.stopTime
}

// Argv returns a copy of the argument vector.
func (p *Process) Argv() []string {
	return append([]string(nil), p.argv...)
}

// Envv returns a copy of the environment vector.
func (p *Process) Envv() []string {
	return append([]string(nil), p.envv...)
}

// TotalRunTime returns the real time, in seconds, spent running the plugin.
func (p *Process) TotalRunTime() float64 {
	return p.totalRunTime
}

// ReturnCode returns the return code of the last completed run.
func (p *Process) ReturnCode() int {
	return p.returnCode
}

// HasReportedReturnCode tells if the current run's return code was reported.
func (p *Process) HasReportedReturnCode() bool {
	return p.didLogReturnCode
}

// ThreadCount returns how many threads the process has created.
func (p *Process) ThreadCount() int {
	return p.threadIDCounter
}

// IsRunning tells if the process owns a thread that has not finished.
func (p *Process) IsRunning() bool {
	return p.mainThread != nil && p.mainThread.IsRunning()
}

// State returns the lifecycle state.
func (p *Process) State() State {
	return p.state
}

// SysCallHandler returns the syscall handler of the process.
func (p *Process) SysCallHandler() thread.SysCallHandler {
	return p.sys
}

// SetSysCallHandler retains the handler and releases the previous one.
func (p *Process) SetSysCallHandler(sys thread.SysCallHandler) {
	if sys != nil {
		sys.Retain()
	}

	if p.sys != nil {
		p.sys.Release()
	}

	p.sys = sys
}

// WantsNotify tells if the process waits for readiness on the descriptor.
// Processes do not register interest in descriptors, so it is always false.
func (p *Process) WantsNotify(descriptor int) bool {
	return false
}

// RefCount returns the number of live handles.
func (p *Process) RefCount() int32 {
	return p.refCount.Load()
}

// IsFreed tells if the last handle has been released.
func (p *Process) IsFreed() bool {
	return p.freed.Load()
}

// Retain returns a new handle on the process.
func (p *Process) Retain() *Handle {
	for {
		c := p.refCount.Load()
		if c <= 0 {
			log.Panicf("retaining freed process %s", p.name)
		}

		if p.refCount.CompareAndSwap(c, c+1) {
			return &Handle{process: p}
		}
	}
}

func (p *Process) release() {
	c := p.refCount.Add(-1)
	switch {
	case c > 0:
		return
	case c < 0:
		log.Panicf("process %s released too many times", p.name)
	}

	p.free()
}

func (p *Process) free() {
	if !p.freed.CompareAndSwap(false, true) {
		log.Panicf("process %s freed twice", p.name)
	}

	if p.IsRunning() {
		p.terminateOnFree()
	}

	if p.mainThread != nil {
		p.releaseThread()
	}

	p.SetSysCallHandler(nil)
	p.argv = nil
	p.envv = nil

	p.worker.CountObject(counter.ObjectProcess, counter.CounterFree)
}

// terminateOnFree ends a plugin that is still running when its process is
// destroyed. The run is cut off, not completed: nothing is billed, reported
// or hooked.
func (p *Process) terminateOnFree() {
	logrus.Debugf("terminating process '%s' on free", p.name)

	act := p.worker.Activate(p.host, p)
	defer act.Release()

	p.state = StateStopping
	p.mainThread.Terminate(act)
	p.state = StateIdle
}

func (p *Process) releaseThread() {
	p.mainThread.Release()
	p.mainThread = nil
	p.worker.CountObject(counter.ObjectThread, counter.CounterFree)
}

func (p *Process) String() string {
	return fmt.Sprintf("%s(%s)", p.name, p.state)
}

// A Handle is one strong reference to a process.
type Handle struct {
	process  *Process
	released atomic.Bool
}

// Process returns the process. It panics if the handle was released.
func (h *Handle) Process() *Process {
	if h.released.Load() {
		log.Panic("using a released process handle")
	}

	return h.process
}

// Retain returns another handle on the same process.
func (h *Handle) Retain() *Handle {
	return h.Process().Retain()
}

// Release gives up the reference. Releasing the same handle twice panics.
func (h *Handle) Release() {
	if !h.released.CompareAndSwap(false, true) {
		log.Panicf("process handle of %s released twice", h.process.name)
	}

	h.process.release()
}

// IsReleased tells if the handle has been released.
func (h *Handle) IsReleased() bool {
	return h.released.Load()
}

// LifecycleDetail describes one drive of a process. It is the Detail of the
// lifecycle hooks.
type LifecycleDetail struct {
	Now        sim.VTime
	Elapsed    time.Duration
	State      State
	ReturnCode int
}
