package meter

// Result is what a strategy derives from one completed window.
type Result struct {
	Metric    float64  // observed rate as a fraction of max
	SlowDelta *float64 // percentile frame time in ms, percentile strategy only
}

// Strategy turns a window of frame observations into one normalized metric.
// It is chosen once at construction.
type Strategy interface {
	Name() string
	// TracksDeltas reports whether the window must record inter-frame deltas.
	TracksDeltas() bool
	// Compute returns false when the window holds nothing to measure.
	Compute(w *Window) (Result, bool)
}

// NewStrategy selects Throughput when slowPercentile is 0 and SlowPercentile
// otherwise.
func NewStrategy(period, max, slowPercentile float64) Strategy {
	if slowPercentile > 0 {
		return SlowPercentile{Percentile: slowPercentile, Max: max}
	}
	return Throughput{Period: period, Max: max}
}

// Throughput compares the frames seen in a period with the frames expected at
// Max per second.
type Throughput struct {
	Period float64 // ms
	Max    float64
}

func (Throughput) Name() string       { return "throughput" }
func (Throughput) TracksDeltas() bool { return false }

func (s Throughput) Compute(w *Window) (Result, bool) {
	if w.Frames == 0 {
		return Result{}, false
	}
	return Result{Metric: float64(w.Frames) / (s.Max * s.Period / 1000)}, true
}

// SlowPercentile converts the p-th percentile frame time into an equivalent
// rate, so a few long frames drag the metric down even when most are fast.
type SlowPercentile struct {
	Percentile float64 // (0,100]
	Max        float64
}

func (SlowPercentile) Name() string       { return "slow-percentile" }
func (SlowPercentile) TracksDeltas() bool { return true }

func (s SlowPercentile) Compute(w *Window) (Result, bool) {
	d, ok := CalculatePercentile(w.Deltas, s.Percentile)
	// d == 0: frames shared a timestamp, no finite rate
	if !ok || d <= 0 {
		return Result{}, false
	}
	return Result{Metric: (1000 / d) / s.Max, SlowDelta: &d}, true
}
