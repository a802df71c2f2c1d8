package storage

import "testing"

func TestF32RoundTrip(t *testing.T) {
	b := f32Backend{}
	v := []float32{1.5, -2.25, 0, 3.14159, -1e6}
	out := make([]byte, len(v)*b.ElemSize())
	b.Encode(v, out)

	got := make([]float32, len(v))
	b.Decode(out, got)

	for i := range v {
		if got[i] != v[i] {
			t.Fatalf("index %d: got %v, want %v (bit-identical round trip)", i, got[i], v[i])
		}
	}
}

func TestF32Kind(t *testing.T) {
	b := f32Backend{}
	if b.Kind() != F32 {
		t.Fatalf("Kind() = %v, want F32", b.Kind())
	}
	if b.ElemSize() != 4 {
		t.Fatalf("ElemSize() = %d, want 4", b.ElemSize())
	}
}
