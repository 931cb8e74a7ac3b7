package process

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/worker"
)

// State is the lifecycle state of a process.
type State int

// The lifecycle states.
const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Hook positions of the process lifecycle. The Item of the hook context is
// the process and the Detail is a LifecycleDetail.
var (
	HookPosStart    = &sim.HookPos{Name: "ProcessStart"}
	HookPosContinue = &sim.HookPos{Name: "ProcessContinue"}
	HookPosStop     = &sim.HookPos{Name: "ProcessStop"}
	HookPosComplete = &sim.HookPos{Name: "ProcessComplete"}
)

// Start runs the plugin from the beginning. It does nothing if the process is
// already running.
func (p *Process) Start() {
	if p.IsRunning() {
		return
	}

	logrus.Infof("starting process '%s'", p.name)

	p.mainThread = p.factory.NewThread(p.threadIDCounter, p.sys)
	p.threadIDCounter++
	p.didLogReturnCode = false
	p.worker.CountObject(counter.ObjectThread, counter.CounterNew)

	elapsed := p.drive(HookPosStart, StateStarting,
		func(act *worker.Activation) {
			p.mainThread.Run(act, p.argv, p.envv)
		})

	logrus.Infof("process '%s' started in %f seconds", p.name, elapsed)

	p.checkCompletion()
}

// Continue lets a blocked plugin run until it blocks again or completes. It
// does nothing if the process is not running.
func (p *Process) Continue() {
	if !p.IsRunning() {
		return
	}

	logrus.Debugf(
		"switching to thread controller to continue executing process '%s'",
		p.name)

	elapsed := p.drive(HookPosContinue, StateRunning,
		func(act *worker.Activation) {
			p.mainThread.Resume(act)
		})

	logrus.Debugf("process '%s' ran for %f seconds", p.name, elapsed)

	p.checkCompletion()
}

// Stop terminates the plugin. It does nothing if the process is not running.
func (p *Process) Stop() {
	if !p.IsRunning() {
		return
	}

	logrus.Infof("terminating process '%s'", p.name)

	elapsed := p.drive(HookPosStop, StateStopping,
		func(act *worker.Activation) {
			p.mainThread.Terminate(act)
		})

	logrus.Infof("process '%s' stopped in %f seconds", p.name, elapsed)

	p.checkCompletion()
}

// drive runs call under an activation of the process and bills the real time
// it took. It returns the elapsed seconds. Callers check for completion.
func (p *Process) drive(
	pos *sim.HookPos,
	state State,
	call func(act *worker.Activation),
) float64 {
	p.state = state

	act := p.worker.Activate(p.host, p)
	defer act.Release()

	sw := startStopwatch(p.clock)
	call(act)
	elapsed := sw.elapsed()

	p.bill(act, elapsed)
	act.Release()

	p.state = StateRunning
	p.InvokeHook(sim.HookCtx{
		Domain: p,
		Pos:    pos,
		Item:   p,
		Detail: LifecycleDetail{
			Now:     p.worker.CurrentTime(),
			Elapsed: elapsed,
			State:   state,
		},
	})

	return elapsed.Seconds()
}

func (p *Process) checkCompletion() {
	if p.mainThread == nil {
		p.state = StateIdle
		return
	}

	if p.mainThread.IsRunning() {
		logrus.Debugf(
			"process '%s' is running, but threads are blocked waiting for events",
			p.name)
		return
	}

	p.returnCode = p.mainThread.ReturnCode()
	p.reportReturnCode()

	p.releaseThread()
	p.state = StateIdle

	logrus.Infof(
		"process '%s' has completed or is otherwise no longer running",
		p.name)
	logrus.Infof("total runtime for process '%s' was %f seconds",
		p.name, p.totalRunTime)

	p.InvokeHook(sim.HookCtx{
		Domain: p,
		Pos:    HookPosComplete,
		Item:   p,
		Detail: LifecycleDetail{
			Now:        p.worker.CurrentTime(),
			State:      p.state,
			ReturnCode: p.returnCode,
		},
	})
}

func (p *Process) reportReturnCode() {
	if p.didLogReturnCode {
		return
	}

	p.didLogReturnCode = true

	if p.returnCode == 0 {
		logrus.Infof("main success code '%d' for process '%s'",
			p.returnCode, p.name)
		return
	}

	logrus.Warnf("main error code '%d' for process '%s'",
		p.returnCode, p.name)
	p.worker.IncrementPluginError()
}
