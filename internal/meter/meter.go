// Package meter measures how often the host draws frames and paints a rolling
// sparkline of that rate.
//
// A Meter is stepped once per host frame: FrameClock timestamps the frame,
// SampleAggregator decides whether a period has elapsed and computes the
// metric, the metric is appended to the RollingBuffer, and the Renderer repaints
// the surface and the readout. All of this happens on the caller's goroutine;
// a Meter must not be stepped concurrently.
package meter

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"time"

	v1 "github.com/OriD-19/fpsmeter/api/v1"
	"github.com/OriD-19/fpsmeter/internal/clock"
	"github.com/OriD-19/fpsmeter/internal/config"
	"github.com/OriD-19/fpsmeter/internal/logging"
)

type Meter struct {
	id       string
	frames   *FrameClock
	agg      *SampleAggregator
	buffer   *RollingBuffer
	renderer *Renderer
	stats    Stats
	started  time.Time

	metricsChannel chan<- *v1.PeriodMetrics
}

// New builds a meter from validated options. surface may be nil, in which case
// an RGBA image of the configured size is allocated; otherwise the surface width
// sets the history capacity. readout may be nil.
func New(o config.Options, source clock.Source, surface draw.Image, readout Readout) (*Meter, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		source = clock.NewMonotonic()
	}
	if surface == nil {
		surface = image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	}
	if surface.Bounds().Empty() {
		return nil, fmt.Errorf("%w: drawing surface has no area", config.ErrInvalidConfig)
	}
	fg, err := o.Foreground()
	if err != nil {
		return nil, err
	}

	start := source.Now()
	strategy := NewStrategy(o.Period, o.Max, o.SlowPercentile)
	agg := NewSampleAggregator(o.ID, o.Period, o.Max, strategy, start)

	m := &Meter{
		id:       o.ID,
		frames:   NewFrameClock(source, agg, start),
		agg:      agg,
		buffer:   NewRollingBuffer(surface.Bounds().Dx(), ValuesFrom(o.Values)),
		renderer: NewRenderer(surface, fg, readout),
		started:  time.Now(),
	}
	if m.buffer.Len() > 0 {
		m.renderer.Render(m.buffer)
	}
	if readout != nil {
		readout.SetText(InitialReadout)
	}
	logging.Debugf("[meter %s] created strategy=%s period=%.0fms max=%.0f capacity=%d",
		m.id, strategy.Name(), o.Period, o.Max, m.buffer.Cap())
	return m, nil
}

// Subscribe registers a channel that receives every emitted period. Sends never
// block; a full channel drops the record.
func (m *Meter) Subscribe(ch chan<- *v1.PeriodMetrics) { m.metricsChannel = ch }

// Tick runs one step at the clock's current time.
func (m *Meter) Tick() (*v1.PeriodMetrics, bool) {
	return m.emit(m.frames.Tick())
}

// Step runs one step as if the frame arrived at t (ms on the meter's clock).
func (m *Meter) Step(t float64) (*v1.PeriodMetrics, bool) {
	return m.emit(m.frames.Observe(t))
}

func (m *Meter) emit(metrics *v1.PeriodMetrics, ok bool) (*v1.PeriodMetrics, bool) {
	if !ok {
		return nil, false
	}
	m.buffer.Append(metrics.Metric)
	m.renderer.Render(m.buffer)
	m.renderer.UpdateReadout(metrics.Rate)
	m.stats.Add(metrics.Rate)

	if metrics.Coalesced > 0 {
		logging.Debugf("[meter %s] late boundary: %d extra period(s) folded into one", m.id, metrics.Coalesced)
	}
	logging.Debugf("[meter %s] period %.0f-%.0fms frames=%d rate=%.1f",
		m.id, metrics.WindowStart, metrics.WindowEnd, metrics.Frames, metrics.Rate)

	if m.metricsChannel != nil {
		select {
		case m.metricsChannel <- metrics:
		default:
		}
	}
	return metrics, true
}

// Run steps the meter once for every signal on frames until ctx is cancelled or
// frames is closed. Cancellation is checked before each step.
func (m *Meter) Run(ctx context.Context, frames <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			m.Tick()
		}
	}
}

// Summary reports statistics over every period emitted so far.
func (m *Meter) Summary() v1.Summary {
	return m.stats.Summary(m.id, m.agg.Strategy().Name(), m.agg.Skipped(), m.started)
}

func (m *Meter) ID() string                    { return m.id }
func (m *Meter) Buffer() *RollingBuffer        { return m.buffer }
func (m *Meter) Aggregator() *SampleAggregator { return m.agg }
func (m *Meter) Surface() draw.Image           { return m.renderer.Surface() }
