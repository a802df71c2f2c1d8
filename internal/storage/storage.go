// Package storage implements the scalar backends that encode a caller's
// f32 vector into the bytes actually kept in a graph node.
package storage

import "fmt"

// Kind identifies an on-disk element encoding.
type Kind uint8

const (
	F32 Kind = iota
	I8Scaled
	E4M3
)

func (k Kind) String() string {
	switch k {
	case F32:
		return "f32"
	case I8Scaled:
		return "i8_scaled"
	case E4M3:
		return "e4m3"
	default:
		return "unknown"
	}
}

// Backend encodes/decodes one vector element format. Distance is always
// computed on decoded (or scale-corrected) values, never on raw encoded
// bytes compared directly.
type Backend interface {
	Kind() Kind
	// ElemSize is the number of bytes one vector component occupies.
	ElemSize() int
	// Encode writes dim encoded elements of v into out, which must be
	// len(v)*ElemSize() bytes long.
	Encode(v []float32, out []byte)
	// Decode reads dim encoded elements from b into out, which must be
	// len(b)/ElemSize() long.
	Decode(b []byte, out []float32)
}

// EncodedEuclidean is satisfied by backends that can compute squared
// Euclidean distance directly on encoded bytes instead of decoding both
// operands first. The HNSW engine uses it as a fast path, when present,
// for Euclidean-space graphs.
type EncodedEuclidean interface {
	SquaredDistanceEncoded(a, b []byte) float32
}

// For returns the backend implementing kind.
func For(kind Kind) (Backend, error) {
	switch kind {
	case F32:
		return f32Backend{}, nil
	case I8Scaled:
		return i8ScaledBackend{}, nil
	case E4M3:
		return e4m3Backend{}, nil
	default:
		return nil, fmt.Errorf("storage: unsupported kind %d", kind)
	}
}
