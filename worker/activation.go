package worker

import (
	"sync/atomic"

	"github.com/sarchlab/vproc/sim"
)

// An Activation is the scoped right to execute plugin code on behalf of one
// process. It is released exactly once.
type Activation struct {
	worker   *Worker
	host     Host
	process  Named
	released atomic.Bool
}

// Host returns the host the process runs on.
func (a *Activation) Host() Host {
	return a.host
}

// HostName returns the name of the host.
func (a *Activation) HostName() string {
	return a.host.Name()
}

// ProcessName returns the name of the active process.
func (a *Activation) ProcessName() string {
	return a.process.Name()
}

// Now returns the current virtual time.
func (a *Activation) Now() sim.VTime {
	return a.worker.CurrentTime()
}

// Worker returns the worker the activation belongs to.
func (a *Activation) Worker() *Worker {
	return a.worker
}

// Release clears the active slot. Extra calls are ignored so that Release
// can be deferred next to an explicit early release.
func (a *Activation) Release() {
	if !a.released.CompareAndSwap(false, true) {
		return
	}

	a.worker.deactivate(a)
}

// IsReleased tells if the activation has been released.
func (a *Activation) IsReleased() bool {
	return a.released.Load()
}
