package process

import (
	"time"

	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/worker"
)

// Clock reads the real time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// RealClock returns the clock that reads the monotonic system clock.
func RealClock() Clock {
	return realClock{}
}

type stopwatch struct {
	clock Clock
	start time.Time
}

func startStopwatch(clock Clock) stopwatch {
	return stopwatch{clock: clock, start: clock.Now()}
}

func (s stopwatch) elapsed() time.Duration {
	d := s.clock.Now().Sub(s.start)
	if d < 0 {
		return 0
	}

	return d
}

// bill adds the elapsed real time to the process total and charges it to the
// CPU of the active host.
func (p *Process) bill(act *worker.Activation, elapsed time.Duration) {
	p.totalRunTime += elapsed.Seconds()

	delay := sim.VTime(elapsed.Nanoseconds())
	host := act.Host()

	if cpu := host.CPU(); cpu != nil {
		cpu.AddDelay(delay)
	}

	if tracker := host.Tracker(); tracker != nil {
		tracker.AddProcessingTime(delay)
	}
}
