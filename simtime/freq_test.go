package simtime

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * KHz
		Expect(f.Period()).To(Equal(Millisecond))
	})

	It("should get period at the resolution limit", func() {
		var f = 1 * MHz
		Expect(f.Period()).To(Equal(Microsecond))
	})

	It("should get this tick", func() {
		var f = 1 * Hz
		Expect(f.ThisTick(SimTimeFromSeconds(1))).
			To(Equal(SimTimeFromSeconds(1)))
	})

	It("should get this tick, if currTime is not on a tick", func() {
		var f = 1 * KHz
		Expect(f.ThisTick(SimTimeFromMicros(102001))).
			To(Equal(SimTimeFromMicros(103000)))
	})

	It("should get the next tick", func() {
		var f = 1 * KHz
		Expect(f.NextTick(SimTimeFromMicros(102000))).
			To(Equal(SimTimeFromMicros(103000)))
	})

	It("should get the next tick, if currTime is not on a tick", func() {
		var f = 1 * KHz
		Expect(f.NextTick(SimTimeFromMicros(102001))).
			To(Equal(SimTimeFromMicros(103000)))
	})

	It("should count cycles, rounding to the nearest tick", func() {
		var f = 1 * KHz
		Expect(f.Cycle(SimTimeFromMicros(102400))).To(Equal(uint64(102)))
		Expect(f.Cycle(SimTimeFromMicros(102500))).To(Equal(uint64(103)))
	})

	It("should get the n cycles later", func() {
		var f = 1 * KHz
		Expect(f.NCyclesLater(12, SimTimeFromMicros(102000))).
			To(Equal(SimTimeFromMicros(114000)))
	})

	It("should get the n cycles later, if current time is not on a tick", func() {
		var f = 1 * KHz
		Expect(f.NCyclesLater(12, SimTimeFromMicros(102001))).
			To(Equal(SimTimeFromMicros(115000)))
	})

	It("should get the no-earlier-than time, on tick", func() {
		var f = 1 * KHz
		Expect(f.NoEarlierThan(SimTimeFromMicros(102000))).
			To(Equal(SimTimeFromMicros(102000)))
	})

	It("should get the no-earlier-than time, off tick", func() {
		var f = 1 * KHz
		Expect(f.NoEarlierThan(SimTimeFromMicros(102001))).
			To(Equal(SimTimeFromMicros(103000)))
	})

	It("should get the half tick", func() {
		var f = 1 * KHz
		Expect(f.HalfTick(SimTimeFromMicros(102001))).
			To(Equal(SimTimeFromMicros(103500)))
	})

	It("should panic on a zero frequency", func() {
		var f Freq
		Expect(func() { f.Period() }).To(Panic())
	})

	It("should panic above the resolution limit", func() {
		var f = 2 * MHz
		Expect(func() { f.Period() }).To(Panic())
	})
})
