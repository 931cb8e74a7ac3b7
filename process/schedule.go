package process

import (
	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/sim"
)

// minDelay is the delay of a lifecycle task that is already due. Tasks never
// fire at the instant they are scheduled.
const minDelay sim.VTime = 1

// Schedule creates the start and stop tasks of the process. Each task holds
// its own handle on the process until it retires. It returns the number of
// tasks scheduled.
func Schedule(h *Handle) int {
	p := h.Process()
	now := p.worker.CurrentTime()
	n := 0

	if p.stopTime == 0 || p.startTime < p.stopTime {
		p.scheduleLifecycleTask("start", dueIn(p.startTime, now),
			(*Process).Start)
		n++
	}

	if p.stopTime > 0 && p.stopTime > p.startTime {
		p.scheduleLifecycleTask("stop", dueIn(p.stopTime, now),
			(*Process).Stop)
		n++
	}

	return n
}

func dueIn(at, now sim.VTime) sim.VTime {
	if at <= now {
		return minDelay
	}

	return at - now
}

func (p *Process) scheduleLifecycleTask(
	kind string,
	delay sim.VTime,
	action func(*Process),
) {
	task := p.newTask(kind, action)
	p.worker.ScheduleTask(task, delay)
}

// ScheduleContinue arranges for the process to be continued after delay. The
// host may push the wakeup further back by the delay its CPU has built up.
func (p *Process) ScheduleContinue(delay sim.VTime) {
	task := p.newTask("continue", (*Process).Continue)
	p.host.ScheduleTask(task, delay)
}

func (p *Process) newTask(kind string, action func(*Process)) *sim.Task {
	h := p.Retain()
	w := p.worker

	w.CountObject(counter.ObjectTask, counter.CounterNew)

	return sim.NewTask(
		kind+" "+p.name,
		func(now sim.VTime) {
			action(h.Process())
		},
		func() {
			h.Release()
			w.CountObject(counter.ObjectTask, counter.CounterFree)
		},
	)
}
