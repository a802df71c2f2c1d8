// Package voyagraph is a concurrent, in-memory approximate nearest
// neighbor index over HNSW graphs, supporting Euclidean, inner-product,
// and cosine distance with float32, scaled int8, or 8-bit float vector
// storage.
package voyagraph

import (
	"github.com/voyagraph/voyagraph/internal/codec"
	"github.com/voyagraph/voyagraph/internal/hnsw"
)

// Sentinel errors. Use errors.Is to test for a specific condition; the
// underlying internal error is always wrapped, not replaced.
var (
	ErrInvalidArgument     = hnsw.ErrInvalidArgument
	ErrUnknownLabel        = hnsw.ErrUnknownLabel
	ErrDuplicateLabel      = hnsw.ErrDuplicateLabel
	ErrInsufficientResults = hnsw.ErrInsufficientResults
	ErrCapacity            = hnsw.ErrCapacity
	ErrFormat              = codec.ErrFormat
)
