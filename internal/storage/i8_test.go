package storage

import "testing"

func TestI8ScaledRoundTrip(t *testing.T) {
	b := i8ScaledBackend{}
	v := []float32{1, -1, 0, 0.5, -0.5}
	out := make([]byte, len(v)*b.ElemSize())
	b.Encode(v, out)

	got := make([]float32, len(v))
	b.Decode(out, got)

	const tol = 1.0 / 127
	for i := range v {
		diff := got[i] - v[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > tol {
			t.Fatalf("index %d: got %v, want ~%v (tol %v)", i, got[i], v[i], tol)
		}
	}
}

func TestI8ScaledSaturates(t *testing.T) {
	b := i8ScaledBackend{}
	v := []float32{2, -2}
	out := make([]byte, 2)
	b.Encode(v, out)
	if int8(out[0]) != 127 {
		t.Fatalf("Encode(2) clamped byte = %d, want 127", int8(out[0]))
	}
	if int8(out[1]) != -127 {
		t.Fatalf("Encode(-2) clamped byte = %d, want -127", int8(out[1]))
	}
}

func TestI8ScaledSquaredDistanceEncodedMatchesDecoded(t *testing.T) {
	b := i8ScaledBackend{}
	a := []float32{1, 0, -0.5, 0.25}
	c := []float32{-1, 0.5, 0.5, 0}

	ea := make([]byte, len(a))
	ec := make([]byte, len(c))
	b.Encode(a, ea)
	b.Encode(c, ec)

	da := make([]float32, len(a))
	dc := make([]float32, len(c))
	b.Decode(ea, da)
	b.Decode(ec, dc)

	var want float32
	for i := range da {
		d := da[i] - dc[i]
		want += d * d
	}

	got := b.SquaredDistanceEncoded(ea, ec)

	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-3 {
		t.Fatalf("SquaredDistanceEncoded = %v, want ~%v", got, want)
	}
}
