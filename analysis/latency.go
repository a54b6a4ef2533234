// Package analysis collects statistics about a running scheduler.
package analysis

import (
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/openvct/simsched/scheduler"
	"github.com/openvct/simsched/simtime"
)

// Histogram range: 1 microsecond to 60 seconds
const (
	minLagUs = 1
	maxLagUs = 60_000_000
	sigFigs  = 3
)

// LatencyAnalyzer is a hook that measures firing lag, the simulation
// time between an event's due time and the moment the actor fired it.
// Lag accumulates into an HdrHistogram, so recording stays cheap
// enough to run on every firing.
type LatencyAnalyzer struct {
	clock simtime.Clock

	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
	count     int64
}

// NewLatencyAnalyzer creates an analyzer reading lag against the given
// clock, which must be the clock the scheduler runs on.
func NewLatencyAnalyzer(clock simtime.Clock) *LatencyAnalyzer {
	return &LatencyAnalyzer{
		clock:     clock,
		histogram: hdrhistogram.New(minLagUs, maxLagUs, sigFigs),
	}
}

// Func records the lag of every fired event.
func (a *LatencyAnalyzer) Func(ctx scheduler.HookCtx) {
	if ctx.Pos != scheduler.HookPosAfterFire {
		return
	}

	n, ok := ctx.Detail.(scheduler.EventNotification)
	if !ok {
		return
	}

	lagUs := a.clock.Now().Sub(n.Time).Microseconds()
	if lagUs < minLagUs {
		lagUs = minLagUs
	}
	if lagUs > maxLagUs {
		lagUs = maxLagUs
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.count++
	_ = a.histogram.RecordValue(lagUs)
}

// A LatencySnapshot is a point-in-time summary of firing lag, in
// microseconds.
type LatencySnapshot struct {
	Count int64
	P50   int64
	P99   int64
	Max   int64
}

// Snapshot summarizes the lag recorded so far.
func (a *LatencyAnalyzer) Snapshot() LatencySnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return LatencySnapshot{
		Count: a.count,
		P50:   a.histogram.ValueAtQuantile(50),
		P99:   a.histogram.ValueAtQuantile(99),
		Max:   a.histogram.Max(),
	}
}

// Reset clears the recorded lag.
func (a *LatencyAnalyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.count = 0
	a.histogram.Reset()
}
