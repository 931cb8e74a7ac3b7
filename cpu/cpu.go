// Package cpu models the CPU of a simulated host.
//
// The real time a host spends running plugin code is added as delay. The
// delay is scaled from the speed of the machine running the simulation to the
// configured speed of the simulated CPU, rounded to a precision, and held
// until virtual time catches up with it.
package cpu

import (
	"log"
	"sync"

	gopsutilcpu "github.com/shirou/gopsutil/cpu"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vproc/sim"
)

// A CPU accumulates processing delay for one simulated host.
type CPU struct {
	lock sync.Mutex

	frequencyKHz    uint64
	rawFrequencyKHz uint64
	frequencyRatio  float64
	threshold       sim.VTime
	precision       sim.VTime

	now              sim.VTime
	timeCPUAvailable sim.VTime
	totalDelay       sim.VTime
}

// New creates a CPU running at frequencyKHz on a machine whose real CPU runs
// at rawFrequencyKHz. A zero raw frequency means the two are the same.
// Threshold and precision are in virtual time; zero disables them. Without a
// threshold the CPU never blocks.
func New(
	frequencyKHz, rawFrequencyKHz uint64,
	threshold, precision sim.VTime,
) *CPU {
	if frequencyKHz == 0 {
		log.Panic("cpu frequency must be positive")
	}

	if rawFrequencyKHz == 0 {
		rawFrequencyKHz = frequencyKHz
	}

	c := &CPU{
		frequencyKHz:    frequencyKHz,
		rawFrequencyKHz: rawFrequencyKHz,
		frequencyRatio:  float64(rawFrequencyKHz) / float64(frequencyKHz),
		threshold:       sim.VTimeInvalid,
		precision:       sim.VTimeInvalid,
	}

	if threshold > 0 {
		c.threshold = threshold
	}

	if precision > 0 {
		c.precision = precision
	}

	return c
}

// FrequencyKHz returns the simulated frequency.
func (c *CPU) FrequencyKHz() uint64 {
	return c.frequencyKHz
}

// FrequencyRatio returns raw over simulated frequency.
func (c *CPU) FrequencyRatio() float64 {
	return c.frequencyRatio
}

// UpdateTime moves the CPU clock to now. Delay that already elapsed in
// virtual time is dropped.
func (c *CPU) UpdateTime(now sim.VTime) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.now = now
	if c.timeCPUAvailable < now {
		c.timeCPUAvailable = now
	}
}

// AddDelay adds the real processing time spent by the host.
func (c *CPU) AddDelay(delay sim.VTime) {
	c.lock.Lock()
	defer c.lock.Unlock()

	adjusted := sim.VTime(c.frequencyRatio * float64(delay))

	if c.precision != sim.VTimeInvalid {
		remainder := adjusted % c.precision
		adjusted -= remainder

		if remainder >= c.precision/2 {
			adjusted += c.precision
		}
	}

	if c.timeCPUAvailable < c.now {
		c.timeCPUAvailable = c.now
	}

	c.timeCPUAvailable += adjusted
	c.totalDelay += adjusted
}

// Delay returns the delay built up beyond the current time, if it is over
// the threshold.
func (c *CPU) Delay() sim.VTime {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.threshold == sim.VTimeInvalid {
		return 0
	}

	builtUp := c.timeCPUAvailable.Since(c.now)
	if builtUp > c.threshold {
		return builtUp
	}

	return 0
}

// IsBlocked tells if events on the host must wait for the CPU.
func (c *CPU) IsBlocked() bool {
	return c.Delay() > 0
}

// TotalDelay returns all the adjusted delay ever added.
func (c *CPU) TotalDelay() sim.VTime {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.totalDelay
}

// RawFrequencyKHz returns the frequency of the CPU of the machine running the
// simulation, or zero if it cannot be read.
func RawFrequencyKHz() uint64 {
	infos, err := gopsutilcpu.Info()
	if err != nil || len(infos) == 0 {
		logrus.Infof("unable to read the raw cpu frequency: %v", err)
		return 0
	}

	var maxMhz float64
	for _, info := range infos {
		if info.Mhz > maxMhz {
			maxMhz = info.Mhz
		}
	}

	return uint64(maxMhz * 1000)
}
