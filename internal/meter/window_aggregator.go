package meter

import (
	"math"

	v1 "github.com/OriD-19/fpsmeter/api/v1"
	"github.com/OriD-19/fpsmeter/internal/logging"
)

// Window is the accumulation state of the current period.
type Window struct {
	Frames uint64
	Deltas []float64 // ms between consecutive frames; percentile strategy only
	Start  float64   // ms, when the period began
}

func (w *Window) reset(t float64) {
	w.Frames = 0
	w.Deltas = w.Deltas[:0]
	w.Start = t
}

// SampleAggregator owns the current window and decides when a period has
// elapsed.
type SampleAggregator struct {
	meterID  string
	window   Window
	period   float64 // ms
	max      float64
	strategy Strategy
	skipped  uint64
}

// NewSampleAggregator creates an aggregator whose first period starts at start.
func NewSampleAggregator(meterID string, period, max float64, strategy Strategy, start float64) *SampleAggregator {
	return &SampleAggregator{
		meterID:  meterID,
		window:   Window{Start: start},
		period:   period,
		max:      max,
		strategy: strategy,
	}
}

// AddSample records one frame. delta is the time since the previous frame and
// is only kept when the strategy needs it.
func (sa *SampleAggregator) AddSample(delta float64) {
	sa.window.Frames++
	if sa.strategy.TracksDeltas() {
		sa.window.Deltas = append(sa.window.Deltas, delta)
	}
}

// CheckBoundary emits the metric for the current period if more than one period
// has passed since it started, and starts the next one at t. Before that point
// it changes nothing. A period with nothing to measure is not emitted and keeps
// accumulating until the next check.
//
// When several periods have passed (the host stopped scheduling frames for a
// while), they are folded into one measurement; Coalesced says how many extra
// periods it spans.
func (sa *SampleAggregator) CheckBoundary(t float64) (*v1.PeriodMetrics, bool) {
	elapsed := t - sa.window.Start
	if elapsed <= sa.period {
		return nil, false
	}

	res, ok := sa.strategy.Compute(&sa.window)
	if !ok {
		sa.skipped++
		logging.Debugf("[meter %s] no frames to measure in %.1fms, skipping period", sa.meterID, elapsed)
		return nil, false
	}

	metrics := v1.NewPeriodMetrics(sa.meterID, sa.strategy.Name())
	metrics.WindowStart = sa.window.Start
	metrics.WindowEnd = t
	metrics.Frames = sa.window.Frames
	metrics.Metric = res.Metric
	metrics.Rate = res.Metric * sa.max
	metrics.SlowDelta = res.SlowDelta
	if extra := int(math.Floor(elapsed/sa.period)) - 1; extra > 0 {
		metrics.Coalesced = extra
	}

	sa.window.reset(t)
	return metrics, true
}

// Window returns a copy of the current window state.
func (sa *SampleAggregator) Window() Window {
	w := sa.window
	w.Deltas = append([]float64(nil), sa.window.Deltas...)
	return w
}

// LastBoundary is the start of the current period in ms.
func (sa *SampleAggregator) LastBoundary() float64 { return sa.window.Start }

// Skipped counts elapsed checks that had nothing to measure.
func (sa *SampleAggregator) Skipped() uint64 { return sa.skipped }

func (sa *SampleAggregator) Strategy() Strategy { return sa.strategy }
func (sa *SampleAggregator) Period() float64    { return sa.period }
func (sa *SampleAggregator) Max() float64       { return sa.max }
