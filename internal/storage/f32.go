package storage

import "math"

// f32Backend stores vectors bit-identically, s = 4 bytes per element.
type f32Backend struct{}

func (f32Backend) Kind() Kind    { return F32 }
func (f32Backend) ElemSize() int { return 4 }

func (f32Backend) Encode(v []float32, out []byte) {
	for i, x := range v {
		bits := math.Float32bits(x)
		o := out[i*4 : i*4+4]
		o[0] = byte(bits)
		o[1] = byte(bits >> 8)
		o[2] = byte(bits >> 16)
		o[3] = byte(bits >> 24)
	}
}

func (f32Backend) Decode(b []byte, out []float32) {
	for i := range out {
		o := b[i*4 : i*4+4]
		bits := uint32(o[0]) | uint32(o[1])<<8 | uint32(o[2])<<16 | uint32(o[3])<<24
		out[i] = math.Float32frombits(bits)
	}
}
