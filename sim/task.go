package sim

import (
	"log"
	"sync/atomic"
)

// TaskCallback is the work a task performs when it fires.
type TaskCallback func(now VTime)

// A Task is a one-shot closure scheduled at a delay from the current time.
//
// A task may own a resource (for example a reference on the object the
// callback operates on). The release routine gives that resource back and is
// invoked exactly once when the task retires, whether the task fired or was
// dropped by the engine.
type Task struct {
	ID string

	name      string
	time      VTime
	scheduled atomic.Bool
	callback  TaskCallback
	release   func()
	retired   atomic.Bool
	fired     atomic.Bool
}

// NewTask creates a task. The release routine may be nil.
func NewTask(name string, callback TaskCallback, release func()) *Task {
	if callback == nil {
		log.Panic("task callback must not be nil")
	}

	return &Task{
		ID:       GetIDGenerator().Generate(),
		name:     name,
		callback: callback,
		release:  release,
	}
}

// Name returns the name of the task.
func (t *Task) Name() string {
	return t.name
}

// Time returns the time the task fires. It is only valid once the task is
// scheduled.
func (t *Task) Time() VTime {
	return t.time
}

// Handler returns the task itself. Tasks handle themselves.
func (t *Task) Handler() Handler {
	return t
}

// IsSecondary returns false. Tasks are always primary events.
func (t *Task) IsSecondary() bool {
	return false
}

// Handle runs the callback.
func (t *Task) Handle(e Event) error {
	if t.retired.Load() {
		log.Panicf("task %s fired after being retired", t.name)
	}

	if !t.fired.CompareAndSwap(false, true) {
		log.Panicf("task %s fired twice", t.name)
	}

	t.callback(t.time)

	return nil
}

// Retire releases what the task owns. Calling Retire more than once has no
// further effect.
func (t *Task) Retire() {
	if !t.retired.CompareAndSwap(false, true) {
		return
	}

	if t.release != nil {
		t.release()
	}
}

// IsRetired tells if the task has released what it owns.
func (t *Task) IsRetired() bool {
	return t.retired.Load()
}

// HasFired tells if the callback has run.
func (t *Task) HasFired() bool {
	return t.fired.Load()
}

func (t *Task) setTime(time VTime) {
	if !t.scheduled.CompareAndSwap(false, true) {
		log.Panicf("task %s scheduled twice", t.name)
	}

	t.time = time
}

// A TaskScheduler can schedule tasks at a delay from the current time.
type TaskScheduler interface {
	TimeTeller
	ScheduleTask(task *Task, delay VTime)
}

var _ Retirer = (*Task)(nil)
var _ Event = (*Task)(nil)
