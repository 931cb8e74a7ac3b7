package thread

import (
	"log"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vproc/counter"
	"github.com/sarchlab/vproc/sim"
)

// A Waker continues a process after a delay.
type Waker interface {
	ScheduleContinue(delay sim.VTime)
}

// Handler is the SysCallHandler of one process.
type Handler struct {
	lock     sync.Mutex
	hostName string
	refCount int
	counter  *counter.ObjectCounter
	waker    Waker
	calls    map[string]uint64
}

// NewHandler creates a handler holding one reference.
func NewHandler(hostName string, objCounter *counter.ObjectCounter) *Handler {
	h := &Handler{
		hostName: hostName,
		refCount: 1,
		counter:  objCounter,
		calls:    make(map[string]uint64),
	}

	if h.counter != nil {
		h.counter.Count(counter.ObjectSysCallHandler, counter.CounterNew)
	}

	return h
}

// SetWaker sets what continues the process after a sleep.
func (h *Handler) SetWaker(w Waker) {
	h.lock.Lock()
	h.waker = w
	h.lock.Unlock()
}

// Retain adds a reference.
func (h *Handler) Retain() {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.refCount <= 0 {
		log.Panic("retaining a freed syscall handler")
	}

	h.refCount++
}

// Release drops a reference. The handler is freed when the last reference
// goes away.
func (h *Handler) Release() {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.refCount <= 0 {
		log.Panic("syscall handler released too many times")
	}

	h.refCount--
	if h.refCount > 0 {
		return
	}

	h.waker = nil
	if h.counter != nil {
		h.counter.Count(counter.ObjectSysCallHandler, counter.CounterFree)
	}
}

// RefCount returns the number of references held.
func (h *Handler) RefCount() int {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.refCount
}

// Syscall records a call.
func (h *Handler) Syscall(ctx Context, name string) {
	h.lock.Lock()
	h.calls[name]++
	h.lock.Unlock()

	logrus.WithFields(logrus.Fields{
		"host":    h.hostName,
		"process": ctx.ProcessName(),
		"time":    ctx.Now(),
	}).Tracef("syscall %s", name)
}

// Sleep records a nanosleep and schedules the process to continue.
func (h *Handler) Sleep(ctx Context, delay sim.VTime) {
	h.Syscall(ctx, "nanosleep")

	h.lock.Lock()
	w := h.waker
	h.lock.Unlock()

	if w == nil {
		logrus.Warnf("process '%s' sleeps but nothing will wake it",
			ctx.ProcessName())
		return
	}

	w.ScheduleContinue(delay)
}

// Calls returns how many times each call was made.
func (h *Handler) Calls() map[string]uint64 {
	h.lock.Lock()
	defer h.lock.Unlock()

	out := make(map[string]uint64, len(h.calls))
	for k, v := range h.calls {
		out[k] = v
	}

	return out
}

// CallNames returns the names of the calls made, in order.
func (h *Handler) CallNames() []string {
	calls := h.Calls()

	names := make([]string, 0, len(calls))
	for n := range calls {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

var _ SysCallHandler = (*Handler)(nil)
