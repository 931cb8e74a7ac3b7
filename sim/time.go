package sim

import (
	"log"
	"math"
)

// VTime is a point or a span in virtual time, counted in nanoseconds.
type VTime uint64

// Units of virtual time.
const (
	VTimeOneNanosecond  VTime = 1
	VTimeOneMicrosecond VTime = 1000 * VTimeOneNanosecond
	VTimeOneMillisecond VTime = 1000 * VTimeOneMicrosecond
	VTimeOneSecond      VTime = 1000 * VTimeOneMillisecond
	VTimeOneMinute      VTime = 60 * VTimeOneSecond
	VTimeOneHour        VTime = 60 * VTimeOneMinute

	// VTimeInvalid marks an unset or disabled time value.
	VTimeInvalid VTime = math.MaxUint64
)

// FromSeconds converts a (real or simulated) duration in seconds into
// virtual time. Negative and NaN values are invalid.
func FromSeconds(sec float64) VTime {
	if math.IsNaN(sec) || sec < 0 {
		log.Panicf("invalid duration %f seconds", sec)
	}

	return VTime(sec * float64(VTimeOneSecond))
}

// Seconds returns the time in seconds.
func (t VTime) Seconds() float64 {
	return float64(t) / float64(VTimeOneSecond)
}

// Since returns t - earlier, or 0 if earlier is not before t.
func (t VTime) Since(earlier VTime) VTime {
	if earlier >= t {
		return 0
	}

	return t - earlier
}
