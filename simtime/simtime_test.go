package simtime

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SimTime", func() {
	It("should convert between units", func() {
		t := SimTimeFromMillis(1500)

		Expect(t.Micros()).To(Equal(uint64(1500000)))
		Expect(t.Millis()).To(Equal(uint64(1500)))
		Expect(t.Seconds()).To(Equal(uint64(1)))
	})

	It("should add durations", func() {
		t := SimTimeFromSeconds(2)

		Expect(t.Add(500 * Millisecond)).
			To(Equal(SimTimeFromMillis(2500)))
	})

	It("should add durations associatively", func() {
		t := SimTimeFromSeconds(1)
		d1 := 300 * Millisecond
		d2 := 450 * Millisecond

		Expect(t.Add(d1).Add(d2)).To(Equal(t.Add(d1 + d2)))
	})

	It("should add negative durations", func() {
		t := SimTimeFromSeconds(2)

		Expect(t.Add(-500 * Millisecond)).
			To(Equal(SimTimeFromMillis(1500)))
	})

	It("should clamp at the epoch when subtracting too much", func() {
		t := SimTimeFromMillis(10)

		Expect(t.Add(-1 * Second)).To(Equal(SimTime(0)))
	})

	It("should subtract times", func() {
		a := SimTimeFromMillis(2500)
		b := SimTimeFromSeconds(1)

		Expect(a.Sub(b)).To(Equal(1500 * Millisecond))
	})

	It("should clamp subtraction at zero", func() {
		a := SimTimeFromSeconds(1)
		b := SimTimeFromSeconds(3)

		Expect(a.Sub(b)).To(Equal(SimDuration(0)))
	})

	It("should shift by wall durations", func() {
		t := SimTimeFromSeconds(1)

		Expect(t.AddWall(TimeDuration(2500 * Millisecond))).
			To(Equal(SimTimeFromMillis(3500)))
	})
})

var _ = Describe("SimDuration", func() {
	It("should report unit counts", func() {
		d := 1500 * Millisecond

		Expect(d.Microseconds()).To(Equal(int64(1500000)))
		Expect(d.Milliseconds()).To(Equal(int64(1500)))
		Expect(d.Seconds()).To(BeNumerically("~", 1.5, 1e-9))
	})

	It("should de-scale by a factor", func() {
		d := 10 * Second

		Expect(d.Div(1000)).To(Equal(10 * Millisecond))
	})

	It("should truncate de-scaling to whole microseconds", func() {
		d := 10 * Microsecond

		Expect(d.Div(3)).To(Equal(3 * Microsecond))
	})

	It("should de-scale negative durations toward zero", func() {
		d := -10 * Microsecond

		Expect(d.Div(3)).To(Equal(-3 * Microsecond))
	})
})
