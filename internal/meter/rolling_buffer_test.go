package meter

import "testing"

func floats(vals []Value) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		f, ok := v.Get()
		if !ok {
			f = -1
		}
		out = append(out, f)
	}
	return out
}

func TestRollingBufferKeepsLastCapacityInOrder(t *testing.T) {
	const capacity = 5
	b := NewRollingBuffer(capacity, nil)
	if b.Len() != 0 || b.Values() != nil {
		t.Fatalf("new buffer should be empty, got len %d", b.Len())
	}
	for n := 1; n <= 23; n++ {
		b.Append(float64(n))
		if b.Len() > capacity {
			t.Fatalf("len %d exceeds capacity after %d appends", b.Len(), n)
		}
		want := n
		if want > capacity {
			want = capacity
		}
		if b.Len() != want {
			t.Fatalf("after %d appends len=%d want %d", n, b.Len(), want)
		}
	}
	got := floats(b.Values())
	want := []float64{19, 20, 21, 22, 23}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("values = %v want %v", got, want)
		}
	}
	if v, _ := b.Latest().Get(); v != 23 {
		t.Fatalf("latest = %v", v)
	}
}

func TestRollingBufferSeed(t *testing.T) {
	seed := []Value{Some(0.1), Unset(), Some(0.3), Some(0.4)}
	b := NewRollingBuffer(3, seed)
	got := floats(b.Values())
	if len(got) != 3 || got[0] != -1 || got[1] != 0.3 || got[2] != 0.4 {
		t.Fatalf("seed should keep the newest entries: %v", got)
	}
	b.Append(0.5)
	got = floats(b.Values())
	if got[0] != 0.3 || got[2] != 0.5 {
		t.Fatalf("append after seed: %v", got)
	}
	if b.Cap() != 3 {
		t.Fatalf("cap = %d", b.Cap())
	}
}

func TestValuesFrom(t *testing.T) {
	a, c := 0.5, 0.75
	vals := ValuesFrom([]*float64{&a, nil, &c})
	if len(vals) != 3 || !vals[0].IsSet() || vals[1].IsSet() || !vals[2].IsSet() {
		t.Fatalf("unexpected slots %+v", vals)
	}
	if ValuesFrom(nil) != nil {
		t.Fatal("nil seed should map to nil")
	}
	if NewRollingBuffer(0, nil).Cap() != 1 {
		t.Fatal("non-positive capacity should clamp to 1")
	}
}
