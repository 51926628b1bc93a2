// Package host provides the frame schedulers that drive a meter outside a
// real render loop.
package host

import (
	"context"
	"time"

	"github.com/OriD-19/fpsmeter/internal/logging"
)

// DefaultRefresh is the nominal frame rate of a TickerHost in Hz.
const DefaultRefresh = 60

// TickerHost emits frame signals at a fixed refresh rate. Every StallEvery
// frames it blocks for Stall first, which looks to the meter like a dropped
// frame or a long task on the main thread.
type TickerHost struct {
	Refresh    float64 // Hz
	StallEvery int
	Stall      time.Duration
}

// Frames starts the scheduler. The returned channel is closed once ctx is done.
// Signals are sent unbuffered, so a slow consumer slows the host down like a
// busy main thread would.
func (h TickerHost) Frames(ctx context.Context) <-chan struct{} {
	refresh := h.Refresh
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	interval := time.Duration(float64(time.Second) / refresh)
	frames := make(chan struct{})

	go func() {
		defer close(frames)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logging.Debugf("[host] ticker at %.1fHz, stall %v every %d frames", refresh, h.Stall, h.StallEvery)
		var n int
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			n++
			if h.StallEvery > 0 && h.Stall > 0 && n%h.StallEvery == 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(h.Stall):
				}
			}

			select {
			case <-ctx.Done():
				return
			case frames <- struct{}{}:
			}
		}
	}()
	return frames
}
