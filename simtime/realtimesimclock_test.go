package simtime

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RealTimeSimClock", func() {
	var clock *RealTimeSimClock

	BeforeEach(func() {
		clock = NewRealTimeSimClock()
	})

	It("should start in the stopped state", func() {
		Expect(clock.IsStopped()).To(BeTrue())
		Expect(clock.State()).To(Equal(ClockStopped))
	})

	It("should hold still before being started", func() {
		first := clock.Now()
		time.Sleep(2 * time.Millisecond)

		Expect(clock.Now()).To(Equal(first))
		Expect(first).To(Equal(SimTime(0)))
	})

	It("should leave Start paused at the relative start", func() {
		clock.Start(WallTimeNow(), SimTimeFromSeconds(5), 0, 1.0)

		Expect(clock.IsPaused()).To(BeTrue())
		Expect(clock.Now().Micros()).
			To(BeNumerically("~", 5000000, 1000))
	})

	It("should panic on a non-positive time dilation", func() {
		Expect(func() {
			clock.Start(WallTimeNow(), 0, 0, 0)
		}).To(Panic())
	})

	It("should advance at the dilated rate after Resume", func() {
		clock.Start(WallTimeNow(), 0, 0, 1000.0)
		clock.Resume()

		time.Sleep(5 * time.Millisecond)

		elapsed := clock.Now().Micros()
		Expect(elapsed).To(BeNumerically(">", 4000000))
		Expect(elapsed).To(BeNumerically("<", 100000000))
		Expect(clock.IsRunning()).To(BeTrue())
	})

	It("should return the same instant while paused", func() {
		clock.Start(WallTimeNow(), 0, 0, 1000.0)
		clock.Resume()
		time.Sleep(2 * time.Millisecond)
		clock.Pause()

		first := clock.Now()
		time.Sleep(2 * time.Millisecond)

		Expect(clock.Now()).To(Equal(first))
	})

	It("should keep the freeze point when paused twice", func() {
		clock.Start(WallTimeNow(), 0, 0, 1000.0)
		clock.Resume()
		time.Sleep(2 * time.Millisecond)
		clock.Pause()

		first := clock.Now()
		time.Sleep(2 * time.Millisecond)
		clock.Pause()

		Expect(clock.Now()).To(Equal(first))
	})

	It("should credit the frozen span on Resume", func() {
		clock.Start(WallTimeNow(), 0, 0, 1.0)
		clock.Resume()
		clock.Pause()

		time.Sleep(5 * time.Millisecond)
		clock.Resume()

		Expect(clock.PausedTime().Milliseconds()).
			To(BeNumerically(">=", 5))
		Expect(clock.IsRunning()).To(BeTrue())
	})

	It("should credit nothing when resumed while running", func() {
		clock.Start(WallTimeNow(), 0, 0, 1.0)
		clock.Resume()
		credited := clock.PausedTime()

		clock.Resume()

		Expect(clock.PausedTime()).To(Equal(credited))
		Expect(clock.IsRunning()).To(BeTrue())
	})

	It("should return the same instant while stopped", func() {
		clock.Start(WallTimeNow(), 0, 0, 1000.0)
		clock.Resume()
		time.Sleep(2 * time.Millisecond)
		clock.Stop()

		first := clock.Now()
		time.Sleep(2 * time.Millisecond)

		Expect(clock.Now()).To(Equal(first))
		Expect(clock.IsStopped()).To(BeTrue())
	})

	It("should keep the freeze point across Stop then Pause", func() {
		clock.Start(WallTimeNow(), 0, 0, 1000.0)
		clock.Resume()
		time.Sleep(2 * time.Millisecond)
		clock.Stop()

		first := clock.Now()
		time.Sleep(2 * time.Millisecond)
		clock.Pause()

		Expect(clock.Now()).To(Equal(first))
		Expect(clock.IsPaused()).To(BeTrue())
	})

	It("should shift the timeline on OffsetBy", func() {
		clock.Start(WallTimeNow(), SimTimeFromSeconds(5), 0, 1.0)

		before := clock.Now()
		clock.OffsetBy(-2 * Second)

		Expect(clock.Now()).To(Equal(before.Add(2 * Second)))
	})

	It("should measure elapsed time from the relative start", func() {
		clock.Start(WallTimeNow(), SimTimeFromSeconds(100), 0, 1.0)

		Expect(clock.Elapsed().Microseconds()).
			To(BeNumerically("<", 1000))
	})

	It("should de-scale delays by the time dilation", func() {
		clock.Start(WallTimeNow(), 0, 0, 1000.0)

		wait := clock.DelayTime(SimTimeFromSeconds(1))

		Expect(wait.Microseconds()).To(BeNumerically("~", 1000, 100))
	})

	It("should shrink delays as real time advances", func() {
		clock.Start(WallTimeNow(), 0, 0, 100.0)
		clock.Resume()

		target := SimTimeFromSeconds(1)

		first := clock.DelayTime(target)
		time.Sleep(3 * time.Millisecond)
		second := clock.DelayTime(target)

		Expect(first).To(BeNumerically(">", 0))
		Expect(second).To(BeNumerically("<", first))

		Eventually(func() TimeDuration {
			return clock.DelayTime(target)
		}).Should(Equal(TimeDuration(0)))
	})

	It("should return a zero delay for instants already reached", func() {
		clock.Start(WallTimeNow(), SimTimeFromSeconds(5), 0, 1.0)

		Expect(clock.DelayTime(SimTimeFromSeconds(1))).
			To(Equal(TimeDuration(0)))
	})
})
