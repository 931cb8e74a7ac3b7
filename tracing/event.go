package tracing

import (
	"fmt"
	"time"

	"github.com/sarchlab/vproc/sim"
)

// Kind tells what happened to a process.
type Kind string

// The kinds of lifecycle events.
const (
	KindStart    Kind = "start"
	KindContinue Kind = "continue"
	KindStop     Kind = "stop"
	KindComplete Kind = "complete"
)

// An Event is one lifecycle transition of a process.
type Event struct {
	Time       sim.VTime     `json:"time"`
	Host       string        `json:"host"`
	Process    string        `json:"process"`
	Plugin     string        `json:"plugin"`
	Kind       Kind          `json:"kind"`
	Elapsed    time.Duration `json:"elapsed"`
	State      string        `json:"state"`
	ReturnCode int           `json:"return_code"`
}

func (e Event) String() string {
	return fmt.Sprintf("%.9f %s %s", e.Time.Seconds(), e.Process, e.Kind)
}

// EventFilter decides if an event is interesting.
type EventFilter func(e Event) bool

// AllEvents accepts every event.
func AllEvents(Event) bool {
	return true
}
