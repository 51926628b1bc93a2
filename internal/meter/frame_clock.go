package meter

import (
	v1 "github.com/OriD-19/fpsmeter/api/v1"
	"github.com/OriD-19/fpsmeter/internal/clock"
)

// FrameClock is stepped once per host frame. It timestamps the frame and hands
// it to the aggregator.
type FrameClock struct {
	source    clock.Source
	agg       *SampleAggregator
	lastFrame float64
}

// NewFrameClock creates a clock whose previous frame is taken to be at start,
// the same instant the aggregator's first period begins.
func NewFrameClock(source clock.Source, agg *SampleAggregator, start float64) *FrameClock {
	return &FrameClock{source: source, agg: agg, lastFrame: start}
}

// Tick observes a frame at the source's current time.
func (fc *FrameClock) Tick() (*v1.PeriodMetrics, bool) {
	return fc.Observe(fc.source.Now())
}

// Observe records a frame at t and runs the boundary check.
func (fc *FrameClock) Observe(t float64) (*v1.PeriodMetrics, bool) {
	fc.agg.AddSample(t - fc.lastFrame)
	fc.lastFrame = t
	return fc.agg.CheckBoundary(t)
}

// LastFrame is the timestamp of the most recent frame.
func (fc *FrameClock) LastFrame() float64 { return fc.lastFrame }
