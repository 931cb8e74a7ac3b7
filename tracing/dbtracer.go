package tracing

import (
	"sync"

	"github.com/sarchlab/vproc/datarecording"
	"github.com/sarchlab/vproc/sim"
)

// LifecycleTable is the table DBTracer writes into.
const LifecycleTable = "lifecycle"

// LifecycleEntry is one row of the lifecycle table.
type LifecycleEntry struct {
	ID         string
	Time       float64
	Host       string
	Process    string
	Plugin     string
	Kind       string
	ElapsedSec float64
	State      string
	ReturnCode int
}

// DBTracer stores lifecycle events in a database.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder
	filter  EventFilter

	startTime, endTime sim.VTime
	count              uint64
}

// NewDBTracer creates a DBTracer that writes into the recorder.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	filter EventFilter,
) *DBTracer {
	if filter == nil {
		filter = AllEvents
	}

	dataRecorder.CreateTable(LifecycleTable, LifecycleEntry{})

	return &DBTracer{
		backend: dataRecorder,
		filter:  filter,
		endTime: sim.VTimeInvalid,
	}
}

// SetTimeRange only keeps events in [startTime, endTime].
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTime) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// Trace writes the event.
func (t *DBTracer) Trace(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e.Time < t.startTime || e.Time > t.endTime || !t.filter(e) {
		return
	}

	t.backend.InsertData(LifecycleTable, LifecycleEntry{
		ID:         sim.GetIDGenerator().Generate(),
		Time:       e.Time.Seconds(),
		Host:       e.Host,
		Process:    e.Process,
		Plugin:     e.Plugin,
		Kind:       string(e.Kind),
		ElapsedSec: e.Elapsed.Seconds(),
		State:      e.State,
		ReturnCode: e.ReturnCode,
	})
	t.count++
}

// Count returns the number of events written.
func (t *DBTracer) Count() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.count
}

// Terminate flushes the written events.
func (t *DBTracer) Terminate() {
	t.backend.Flush()
}
