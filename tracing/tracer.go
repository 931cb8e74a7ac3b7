// Package tracing collects the lifecycle events of processes.
package tracing

// A Tracer receives process lifecycle events.
type Tracer interface {
	Trace(e Event)
}

// Tracers fans events out to several tracers.
type Tracers []Tracer

// Trace passes the event to every tracer.
func (ts Tracers) Trace(e Event) {
	for _, t := range ts {
		t.Trace(e)
	}
}
