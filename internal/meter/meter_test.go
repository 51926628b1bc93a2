package meter

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	v1 "github.com/OriD-19/fpsmeter/api/v1"
	"github.com/OriD-19/fpsmeter/internal/clock"
	"github.com/OriD-19/fpsmeter/internal/config"
)

func testOptions() config.Options {
	o := config.Defaults()
	o.ID = "test"
	o.Width = 8
	o.Height = 10
	return o
}

func TestMeterThroughputReadout(t *testing.T) {
	var readout string
	var clk clock.Manual
	m, err := New(testOptions(), &clk, nil, ReadoutFunc(func(s string) { readout = s }))
	if err != nil {
		t.Fatal(err)
	}
	if readout != InitialReadout {
		t.Fatalf("initial readout = %q", readout)
	}

	for i := 1; i < 60; i++ {
		if _, ok := m.Step(float64(i) * 16); ok {
			t.Fatalf("frame %d emitted mid-period", i)
		}
	}
	if m.Buffer().Len() != 0 {
		t.Fatal("nothing may be appended mid-period")
	}
	pm, ok := m.Step(1001)
	if !ok {
		t.Fatal("60th frame after the period should emit")
	}
	if pm.Metric != 0.6 || readout != "60.0" {
		t.Fatalf("metric=%v readout=%q", pm.Metric, readout)
	}
	if m.Buffer().Len() != 1 {
		t.Fatalf("buffer len = %d", m.Buffer().Len())
	}
	img := m.Surface().(*image.RGBA)
	if columnHeight(t, img, 0) != 6 || columnHeight(t, img, 1) != 0 {
		t.Fatal("surface should show one 60% bar")
	}
}

func TestMeterTickUsesClock(t *testing.T) {
	var clk clock.Manual
	clk.Set(5000) // origin is whatever the clock reads at construction
	m, err := New(testOptions(), &clk, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		clk.Advance(34)
		m.Tick()
	}
	if m.Buffer().Len() != 1 {
		t.Fatalf("expected one period after 1020ms, buffer len %d", m.Buffer().Len())
	}
	if v, _ := m.Buffer().Latest().Get(); v != 0.3 {
		t.Fatalf("metric = %v want 0.3", v)
	}
}

func TestMeterSeededValuesRenderImmediately(t *testing.T) {
	o := testOptions()
	half := 0.5
	o.Values = []*float64{&half, &half}
	m, err := New(o, &clock.Manual{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	img := m.Surface().(*image.RGBA)
	if columnHeight(t, img, 0) != 5 || columnHeight(t, img, 1) != 5 || columnHeight(t, img, 2) != 0 {
		t.Fatal("seed should be painted at construction")
	}
}

func TestMeterRejectsInvalidOptions(t *testing.T) {
	o := testOptions()
	o.Max = 0
	if _, err := New(o, nil, nil, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := New(testOptions(), nil, empty, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for empty surface, got %v", err)
	}
}

func TestMeterCapacityFollowsSurfaceWidth(t *testing.T) {
	surface := image.NewRGBA(image.Rect(0, 0, 3, 4))
	m, err := New(testOptions(), &clock.Manual{}, surface, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Buffer().Cap() != 3 {
		t.Fatalf("capacity = %d want surface width 3", m.Buffer().Cap())
	}
	for i := 1; i <= 10; i++ {
		m.Step(float64(i) * 1001)
	}
	if m.Buffer().Len() != 3 {
		t.Fatalf("len = %d", m.Buffer().Len())
	}
}

func TestMeterSubscribeNeverBlocks(t *testing.T) {
	m, err := New(testOptions(), &clock.Manual{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ch := make(chan *v1.PeriodMetrics, 1)
	m.Subscribe(ch)
	m.Step(1001)
	m.Step(2002) // channel full, dropped
	if got := <-ch; got.WindowEnd != 1001 {
		t.Fatalf("first record window end = %v", got.WindowEnd)
	}
	select {
	case extra := <-ch:
		t.Fatalf("unexpected second record %+v", extra)
	default:
	}
}

func TestMeterRunStopsOnCancel(t *testing.T) {
	var n float64
	src := clock.Func(func() float64 { n += 16.5; return n })
	m, err := New(testOptions(), src, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, frames) }()

	for i := 0; i < 200; i++ {
		frames <- struct{}{}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if m.Buffer().Len() < 2 {
		t.Fatalf("200 frames at 16.5ms should span three periods, got %d", m.Buffer().Len())
	}
}

func TestMeterRunReturnsWhenFramesClose(t *testing.T) {
	m, err := New(testOptions(), &clock.Manual{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	frames := make(chan struct{})
	close(frames)
	if err := m.Run(context.Background(), frames); err != nil {
		t.Fatalf("closed source should end Run cleanly, got %v", err)
	}
}

func TestMeterSummary(t *testing.T) {
	m, err := New(testOptions(), &clock.Manual{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	// periods with 30, 60 and 90 frames
	ts := 0.0
	for _, frames := range []int{30, 60, 90} {
		step := 1000.0 / float64(frames)
		for i := 0; i < frames-1; i++ {
			ts += step * 0.99
			m.Step(ts)
		}
		ts = m.Aggregator().LastBoundary() + 1001
		m.Step(ts)
	}
	s := m.Summary()
	if s.Periods != 3 || s.Mean != 60 {
		t.Fatalf("summary periods=%d mean=%v", s.Periods, s.Mean)
	}
	if *s.Min != 30 || *s.Max != 90 || s.Percentiles["p50"] != 60 {
		t.Fatalf("summary = %+v", s)
	}
	if s.StdDev != 30 {
		t.Fatalf("stddev = %v", s.StdDev)
	}
}
