// Package worker holds the per-worker simulation context: the scheduler, the
// slot that names the process currently executing plugin code, and the
// diagnostic counters.
//
// At most one process is active on a worker at any instant. Code that runs
// plugin code must hold an Activation for the duration of the call:
//
//	act := w.Activate(host, proc)
//	defer act.Release()
//	unit.Run(act, argv, envv)
//
// The activation is passed explicitly to anything that may call back into the
// simulator while plugin code runs.
package worker

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/sim"
)

// Named is an object with a name.
type Named interface {
	Name() string
}

// DelayAccumulator turns the real time a host spends executing plugin code
// into simulated CPU delay.
type DelayAccumulator interface {
	AddDelay(delay sim.VTime)
}

// ProcessingTracker records how much processing time a host consumed.
type ProcessingTracker interface {
	AddProcessingTime(delay sim.VTime)
}

// Host is what the worker needs to know about a simulated host.
type Host interface {
	Named
	CPU() DelayAccumulator
	Tracker() ProcessingTracker
}

// Worker is the execution context processes run in.
type Worker struct {
	scheduler sim.TaskScheduler
	counter   *counter.ObjectCounter

	lock   sync.Mutex
	active *Activation

	pluginErrors atomic.Uint64
}

// New creates a worker that schedules tasks on the given scheduler.
func New(scheduler sim.TaskScheduler, objCounter *counter.ObjectCounter) *Worker {
	if scheduler == nil {
		log.Panic("worker requires a scheduler")
	}

	if objCounter == nil {
		objCounter = counter.NewObjectCounter()
	}

	return &Worker{
		scheduler: scheduler,
		counter:   objCounter,
	}
}

// CurrentTime returns the current virtual time.
func (w *Worker) CurrentTime() sim.VTime {
	return w.scheduler.CurrentTime()
}

// ScheduleTask schedules a task to fire after delay.
func (w *Worker) ScheduleTask(task *sim.Task, delay sim.VTime) {
	w.scheduler.ScheduleTask(task, delay)
}

// Counter returns the object counter of the worker.
func (w *Worker) Counter() *counter.ObjectCounter {
	return w.counter
}

// CountObject records a construction or destruction.
func (w *Worker) CountObject(objType counter.ObjectType, ct counter.CounterType) {
	w.counter.Count(objType, ct)
}

// IncrementPluginError records a plugin that exited with an error.
func (w *Worker) IncrementPluginError() {
	w.pluginErrors.Add(1)
}

// PluginErrors returns the number of plugin errors recorded.
func (w *Worker) PluginErrors() uint64 {
	return w.pluginErrors.Load()
}

// Activate marks the process as executing on the host. It panics if another
// activation is still held.
func (w *Worker) Activate(host Host, process Named) *Activation {
	if host == nil {
		log.Panic("cannot activate a process without a host")
	}

	if process == nil {
		log.Panic("cannot activate a nil process")
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	if w.active != nil {
		log.Panicf("cannot activate process %s while process %s is active",
			process.Name(), w.active.process.Name())
	}

	act := &Activation{
		worker:  w,
		host:    host,
		process: process,
	}
	w.active = act

	return act
}

// ActiveHost returns the host of the current activation, or nil.
func (w *Worker) ActiveHost() Host {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.active == nil {
		return nil
	}

	return w.active.host
}

// ActiveProcessName returns the name of the active process, or an empty
// string when no process is active.
func (w *Worker) ActiveProcessName() string {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.active == nil {
		return ""
	}

	return w.active.process.Name()
}

// IsActive tells if some process holds the activation.
func (w *Worker) IsActive() bool {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.active != nil
}

func (w *Worker) deactivate(act *Activation) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.active != act {
		log.Panicf("activation of process %s is not the active one",
			act.process.Name())
	}

	w.active = nil
}
