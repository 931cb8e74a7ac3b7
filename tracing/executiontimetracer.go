package tracing

import (
	"sort"
	"sync"
	"time"
)

// ProcessSummary is what ExecutionTimeTracer knows about one process.
type ProcessSummary struct {
	Process    string        `json:"process"`
	Host       string        `json:"host"`
	Plugin     string        `json:"plugin"`
	Bursts     int           `json:"bursts"`
	Elapsed    time.Duration `json:"elapsed"`
	Completed  bool          `json:"completed"`
	ReturnCode int           `json:"return_code"`
	LastEvent  Kind          `json:"last_event"`
}

// ExecutionTimeTracer totals the real time every process executed.
type ExecutionTimeTracer struct {
	lock      sync.Mutex
	filter    EventFilter
	summaries map[string]*ProcessSummary
}

// NewExecutionTimeTracer creates an ExecutionTimeTracer.
func NewExecutionTimeTracer(filter EventFilter) *ExecutionTimeTracer {
	if filter == nil {
		filter = AllEvents
	}

	return &ExecutionTimeTracer{
		filter:    filter,
		summaries: make(map[string]*ProcessSummary),
	}
}

// Trace adds the event to the summary of its process.
func (t *ExecutionTimeTracer) Trace(e Event) {
	if !t.filter(e) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	s, ok := t.summaries[e.Process]
	if !ok {
		s = &ProcessSummary{
			Process: e.Process,
			Host:    e.Host,
			Plugin:  e.Plugin,
		}
		t.summaries[e.Process] = s
	}

	s.LastEvent = e.Kind

	switch e.Kind {
	case KindStart:
		s.Completed = false
		s.Bursts++
		s.Elapsed += e.Elapsed
	case KindComplete:
		s.Completed = true
		s.ReturnCode = e.ReturnCode
	default:
		s.Bursts++
		s.Elapsed += e.Elapsed
	}
}

// Summary returns the summary of a process.
func (t *ExecutionTimeTracer) Summary(name string) (ProcessSummary, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	s, ok := t.summaries[name]
	if !ok {
		return ProcessSummary{}, false
	}

	return *s, true
}

// Summaries returns all summaries ordered by process name.
func (t *ExecutionTimeTracer) Summaries() []ProcessSummary {
	t.lock.Lock()
	defer t.lock.Unlock()

	out := make([]ProcessSummary, 0, len(t.summaries))
	for _, s := range t.summaries {
		out = append(out, *s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Process < out[j].Process
	})

	return out
}

// TotalTime returns the real time spent in all processes.
func (t *ExecutionTimeTracer) TotalTime() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	var total time.Duration
	for _, s := range t.summaries {
		total += s.Elapsed
	}

	return total
}
