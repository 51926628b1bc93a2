// Package clock provides the monotonic millisecond time source the meter samples
// once per frame.
package clock

// Source reports the current time in milliseconds since its origin.
type Source interface {
	Now() float64
}

// Func adapts a plain function to a Source.
type Func func() float64

func (f Func) Now() float64 { return f() }

// Monotonic is a Source whose origin is the moment it was created. It never
// goes backwards, regardless of wall clock adjustments.
type Monotonic struct {
	origin int64 // ns, platform monotonic clock
}

// NewMonotonic creates a Monotonic source anchored at the current instant.
func NewMonotonic() *Monotonic {
	return &Monotonic{origin: monotonicNanos()}
}

// Now returns milliseconds elapsed since the source was created, with
// sub-millisecond precision.
func (m *Monotonic) Now() float64 {
	return float64(monotonicNanos()-m.origin) / 1e6
}

// Manual is a Source that only moves when told to. Used to step the meter
// deterministically.
type Manual struct {
	t float64
}

func (m *Manual) Now() float64       { return m.t }
func (m *Manual) Set(t float64)      { m.t = t }
func (m *Manual) Advance(ms float64) { m.t += ms }
