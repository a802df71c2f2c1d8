// Package codec implements the stable "VOY1" binary serialization
// format: a header, one fixed-layout block per node, and a whole-file
// CRC-32 trailer. It never touches os.File directly; callers supply a
// Sink or Source.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/voyagraph/voyagraph/internal/distance"
	"github.com/voyagraph/voyagraph/internal/storage"
)

// ErrFormat is returned for a bad magic, version, CRC, or an
// out-of-range neighbor id encountered while loading.
var ErrFormat = errors.New("codec: format error")

const (
	magic          = "VOY1"
	formatVersion  = uint32(1)
	noEntryOnDisk  = ^uint64(0)
)

var byteOrder = binary.LittleEndian

func spaceTag(s distance.Space) uint8    { return uint8(s) }
func storageTag(s storage.Kind) uint8    { return uint8(s) }

func spaceFromTag(tag uint8) (distance.Space, error) {
	switch tag {
	case 0:
		return distance.Euclidean, nil
	case 1:
		return distance.InnerProduct, nil
	case 2:
		return distance.Cosine, nil
	default:
		return 0, fmt.Errorf("%w: unknown space tag %d", ErrFormat, tag)
	}
}

func storageFromTag(tag uint8) (storage.Kind, error) {
	switch tag {
	case 0:
		return storage.F32, nil
	case 1:
		return storage.I8Scaled, nil
	case 2:
		return storage.E4M3, nil
	default:
		return 0, fmt.Errorf("%w: unknown storage tag %d", ErrFormat, tag)
	}
}

// crcWriter tees every byte written through it into a running CRC-32
// (IEEE polynomial) accumulator, wrapping a crc32.NewIEEE() hash.Hash32.
type crcWriter struct {
	sink Sink
	hash uint32Hash
}

type uint32Hash interface {
	Write(p []byte) (int, error)
	Sum32() uint32
}

func newCRCWriter(sink Sink) *crcWriter {
	return &crcWriter{sink: sink, hash: crc32.NewIEEE()}
}

func (w *crcWriter) Write(p []byte) (int, error) {
	n, err := w.sink.Write(p)
	if err != nil {
		return n, err
	}
	w.hash.Write(p)
	return n, nil
}

func (w *crcWriter) sum() uint32 { return w.hash.Sum32() }
