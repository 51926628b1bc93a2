package meter

// Value is one history slot: either a metric or unset.
type Value struct {
	v   float64
	set bool
}

// Some wraps a metric value.
func Some(v float64) Value { return Value{v: v, set: true} }

// Unset is the empty slot.
func Unset() Value { return Value{} }

// Get returns the metric and whether the slot holds one.
func (v Value) Get() (float64, bool) { return v.v, v.set }

func (v Value) IsSet() bool { return v.set }

// ValuesFrom converts a nullable seed into slots; nil entries become Unset.
func ValuesFrom(seed []*float64) []Value {
	if len(seed) == 0 {
		return nil
	}
	out := make([]Value, len(seed))
	for i, p := range seed {
		if p != nil {
			out[i] = Some(*p)
		}
	}
	return out
}

// RollingBuffer is the fixed-capacity trailing history of metrics. Once full,
// each append evicts the oldest slot.
type RollingBuffer struct {
	data  []Value
	size  int
	head  int // next write position
	count int // number of occupied slots
}

// NewRollingBuffer creates a buffer holding at most capacity slots, pre-filled
// with seed. A seed longer than capacity keeps only its most recent entries.
func NewRollingBuffer(capacity int, seed []Value) *RollingBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	b := &RollingBuffer{
		data: make([]Value, capacity),
		size: capacity,
	}
	if len(seed) > capacity {
		seed = seed[len(seed)-capacity:]
	}
	for _, v := range seed {
		b.push(v)
	}
	return b
}

// Append adds a metric as the newest slot.
func (b *RollingBuffer) Append(v float64) { b.push(Some(v)) }

func (b *RollingBuffer) push(v Value) {
	b.data[b.head] = v
	b.head = (b.head + 1) % b.size
	if b.count < b.size {
		b.count++
	}
}

// Values returns the occupied slots in temporal order: index 0 is the oldest.
func (b *RollingBuffer) Values() []Value {
	if b.count == 0 {
		return nil
	}
	out := make([]Value, b.count)
	start := (b.head - b.count + b.size) % b.size
	for i := 0; i < b.count; i++ {
		out[i] = b.data[(start+i)%b.size]
	}
	return out
}

// Latest returns the newest slot.
func (b *RollingBuffer) Latest() Value {
	if b.count == 0 {
		return Unset()
	}
	return b.data[(b.head-1+b.size)%b.size]
}

func (b *RollingBuffer) Len() int { return b.count }
func (b *RollingBuffer) Cap() int { return b.size }
