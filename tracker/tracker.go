// Package tracker keeps per-host statistics about processing time.
package tracker

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vproc/sim"
)

// A Tracker records the processing time a host consumed, both in total and
// since the last heartbeat.
type Tracker struct {
	hostName string

	lock             sync.Mutex
	totalProcessing  sim.VTime
	bursts           uint64
	intervalStart    sim.VTime
	intervalProcTime sim.VTime
	intervalBursts   uint64
}

// New creates a tracker for the named host.
func New(hostName string) *Tracker {
	return &Tracker{hostName: hostName}
}

// AddProcessingTime records one burst of processing.
func (t *Tracker) AddProcessingTime(delay sim.VTime) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.totalProcessing += delay
	t.bursts++
	t.intervalProcTime += delay
	t.intervalBursts++
}

// TotalProcessingTime returns all recorded processing time.
func (t *Tracker) TotalProcessingTime() sim.VTime {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.totalProcessing
}

// Bursts returns how many bursts were recorded.
func (t *Tracker) Bursts() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.bursts
}

// Heartbeat logs the processing done since the previous heartbeat and starts
// a new interval.
func (t *Tracker) Heartbeat(now sim.VTime) {
	t.lock.Lock()
	defer t.lock.Unlock()

	interval := now.Since(t.intervalStart)
	logrus.WithFields(logrus.Fields{
		"host":       t.hostName,
		"interval_s": interval.Seconds(),
		"processing": t.intervalProcTime.Seconds(),
		"bursts":     t.intervalBursts,
	}).Info("[tracker] heartbeat")

	t.intervalStart = now
	t.intervalProcTime = 0
	t.intervalBursts = 0
}

// Handle logs the totals at the end of the simulation.
func (t *Tracker) Handle(now sim.VTime) {
	t.lock.Lock()
	defer t.lock.Unlock()

	logrus.WithFields(logrus.Fields{
		"host":       t.hostName,
		"end_s":      now.Seconds(),
		"processing": t.totalProcessing.Seconds(),
		"bursts":     t.bursts,
	}).Info("[tracker] total processing time")
}

var _ sim.SimulationEndHandler = (*Tracker)(nil)
