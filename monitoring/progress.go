package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/vproc/tracing"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	lock       sync.Mutex
	ID         string
	Name       string
	StartTime  time.Time
	Total      uint64
	Finished   uint64
	InProgress uint64
}

type progressBarRsp struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.InProgress += amount
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.Finished += amount
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if amount > b.InProgress {
		amount = b.InProgress
	}

	b.InProgress -= amount
	b.Finished += amount
}

func (b *ProgressBar) snapshot() progressBarRsp {
	b.lock.Lock()
	defer b.lock.Unlock()

	return progressBarRsp{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
	}
}

// ProgressTracer moves a bar forward as processes start and complete.
type ProgressTracer struct {
	bar *ProgressBar
}

// NewProgressTracer creates a tracer that updates the given bar.
func NewProgressTracer(bar *ProgressBar) *ProgressTracer {
	return &ProgressTracer{bar: bar}
}

// Trace counts a process as in progress on its first start and as finished
// on completion.
func (t *ProgressTracer) Trace(e tracing.Event) {
	switch e.Kind {
	case tracing.KindStart:
		t.bar.IncrementInProgress(1)
	case tracing.KindComplete:
		t.bar.MoveInProgressToFinished(1)
	}
}
