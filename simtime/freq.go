package simtime

import "log"

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
)

// Frequencies above 1 MHz would need periods shorter than the
// microsecond resolution of SimTime and are rejected.
func (f Freq) mustBeUsable() {
	if f <= 0 {
		log.Panic("frequency must be positive")
	}

	if f > MHz {
		log.Panic("frequency is finer than the microsecond resolution")
	}
}

func (f Freq) periodMicros() uint64 {
	f.mustBeUsable()
	return uint64(float64(MHz) / float64(f))
}

// Period returns the time between two consecutive ticks
func (f Freq) Period() SimDuration {
	return SimDuration(f.periodMicros()) * Microsecond
}

// Cycle converts a time to the number of cycles passed since the
// epoch, rounding to the nearest tick.
func (f Freq) Cycle(t SimTime) uint64 {
	p := f.periodMicros()
	return (uint64(t) + p/2) / p
}

// ThisTick returns the current tick time
//
//	          Input
//	          (          ]
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) ThisTick(now SimTime) SimTime {
	p := f.periodMicros()
	count := (uint64(now) + p - 1) / p

	return SimTime(count * p)
}

// NextTick returns the next tick time.
//
//	          Input
//	          [          )
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) NextTick(now SimTime) SimTime {
	p := f.periodMicros()
	count := uint64(now) / p

	return SimTime((count + 1) * p)
}

// NCyclesLater returns the time after N cycles
//
// This function will always return a time of an integer number of cycles
func (f Freq) NCyclesLater(n int, now SimTime) SimTime {
	if n < 0 {
		log.Panic("cycle count cannot be negative")
	}

	return f.ThisTick(now + SimTime(uint64(n)*f.periodMicros()))
}

// NoEarlierThan returns the tick time that is at or right after the given time
func (f Freq) NoEarlierThan(t SimTime) SimTime {
	return f.ThisTick(t)
}

// HalfTick returns the time in middle of two ticks
//
//	          Input
//	          (          ]
//	|----------|----------|----------|----->
//	                           |
//	                           Output
func (f Freq) HalfTick(t SimTime) SimTime {
	return f.ThisTick(t) + SimTime(f.periodMicros()/2)
}
