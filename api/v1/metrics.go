package v1

import (
	"time"
)

// Parameter is anything the output package knows how to print.
type Parameter interface {
	Kind() string
}

func (PeriodMetrics) Kind() string { return "period" }
func (Summary) Kind() string       { return "summary" }

// PeriodMetrics represents the measurement emitted for one elapsed period
type PeriodMetrics struct {
	MeterID     string    `json:"meter_id"`
	Strategy    string    `json:"strategy"`
	WindowStart float64   `json:"window_start_ms"` // meter clock, ms
	WindowEnd   float64   `json:"window_end_ms"`
	Frames      uint64    `json:"frames"`
	Metric      float64   `json:"metric"`                  // fraction of max
	Rate        float64   `json:"rate"`                    // metric * max
	SlowDelta   *float64  `json:"slow_delta_ms,omitempty"` // percentile frame time, SlowPercentile only
	Coalesced   int       `json:"coalesced,omitempty"`     // extra periods folded into this one
	Timestamp   time.Time `json:"timestamp"`
}

// NewPeriodMetrics creates a new PeriodMetrics instance
func NewPeriodMetrics(meterID, strategy string) *PeriodMetrics {
	return &PeriodMetrics{
		MeterID:   meterID,
		Strategy:  strategy,
		Timestamp: time.Now().UTC(),
	}
}

// Summary aggregates the rates emitted over a whole run.
type Summary struct {
	MeterID  string        `json:"meter_id"`
	Strategy string        `json:"strategy"`
	Duration time.Duration `json:"duration"`
	Started  *time.Time    `json:"started,omitempty"`
	Ended    *time.Time    `json:"ended,omitempty"`

	Periods uint64 `json:"periods"`
	Skipped uint64 `json:"skipped"` // boundaries with no frames

	// Rate statistics, frames per second
	Mean   float64  `json:"mean"`
	StdDev float64  `json:"stddev"`
	CV     *float64 `json:"cv,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`

	// Keys like "p50", "p90", "p99"
	Percentiles map[string]float64 `json:"percentiles,omitempty"`
}
