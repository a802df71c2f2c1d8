package codec

import (
	"fmt"
	"hash/crc32"

	"github.com/voyagraph/voyagraph/internal/distance"
	"github.com/voyagraph/voyagraph/internal/hnsw"
	"github.com/voyagraph/voyagraph/internal/storage"
)

// byteReader is satisfied by both Source and the CRC-accumulating
// wrapper used while loading.
type byteReader interface {
	Read(p []byte) (int, error)
}

type crcReader struct {
	src  Source
	hash uint32Hash
}

func newCRCReader(src Source) *crcReader {
	return &crcReader{src: src, hash: crc32.NewIEEE()}
}

func (r *crcReader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	if n > 0 {
		r.hash.Write(p[:n])
	}
	return n, err
}

func (r *crcReader) sum() uint32 { return r.hash.Sum32() }

// Load reconstructs a Graph entirely from src, previously written by
// Save, verifying the magic, version, CRC-32 trailer, and every
// neighbor id against the node count. Any violation fails with
// ErrFormat. The loaded graph's ef_default falls back to its
// ef_construction, since the format does not persist ef_default.
func Load(src Source) (*hnsw.Graph, error) {
	cr := newCRCReader(src)

	hdr, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	cfg := hnsw.Config{
		Dim:            hdr.dim,
		Space:          hdr.space,
		Storage:        hdr.storageKind,
		M:              hdr.m,
		EfConstruction: hdr.efConstruction,
		MaxElements:    hdr.maxElements,
	}

	backend, err := storage.For(hdr.storageKind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	elemSize := backend.ElemSize()

	records := make([]hnsw.NodeRecord, hdr.n)
	for id := uint64(0); id < hdr.n; id++ {
		rec, err := readNode(cr, hdr.m, hdr.dim, elemSize)
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrFormat, id, err)
		}
		for layer, ns := range rec.Neighbors {
			for _, nb := range ns {
				if uint64(nb) >= hdr.n {
					return nil, fmt.Errorf("%w: node %d layer %d neighbor %d out of range (N=%d)", ErrFormat, id, layer, nb, hdr.n)
				}
			}
		}
		records[id] = rec
	}

	var trailer [4]byte
	if _, err := src.Read(trailer[:]); err != nil {
		return nil, fmt.Errorf("%w: reading trailer: %v", ErrFormat, err)
	}
	got := byteOrder.Uint32(trailer[:])
	want := cr.sum()
	if got != want {
		return nil, fmt.Errorf("%w: CRC mismatch (file %08x, computed %08x)", ErrFormat, got, want)
	}

	hasEntry := hdr.entryPoint != noEntryOnDisk
	var entry uint32
	if hasEntry {
		if hdr.entryPoint >= hdr.n {
			return nil, fmt.Errorf("%w: entry point %d out of range (N=%d)", ErrFormat, hdr.entryPoint, hdr.n)
		}
		entry = uint32(hdr.entryPoint)
	}

	return hnsw.Restore(cfg, records, entry, hasEntry, hdr.maxLevel, hdr.rngState)
}

type header struct {
	space          distance.Space
	storageKind    storage.Kind
	dim            int
	m              int
	efConstruction int
	maxElements    int
	n              uint64
	entryPoint     uint64
	maxLevel       int
	rngState       uint64
}

func readHeader(r byteReader) (header, error) {
	var h header

	var magicBuf [4]byte
	if _, err := r.Read(magicBuf[:]); err != nil {
		return h, fmt.Errorf("%w: reading magic: %v", ErrFormat, err)
	}
	if string(magicBuf[:]) != magic {
		return h, fmt.Errorf("%w: bad magic %q", ErrFormat, magicBuf[:])
	}

	version, err := readU32(r)
	if err != nil {
		return h, fmt.Errorf("%w: reading version: %v", ErrFormat, err)
	}
	if version != formatVersion {
		return h, fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
	}

	var tagBuf [2]byte
	if _, err := r.Read(tagBuf[:]); err != nil {
		return h, fmt.Errorf("%w: reading tags: %v", ErrFormat, err)
	}
	space, err := spaceFromTag(tagBuf[0])
	if err != nil {
		return h, err
	}
	storageKind, err := storageFromTag(tagBuf[1])
	if err != nil {
		return h, err
	}
	h.space = space
	h.storageKind = storageKind

	dim, err := readU32(r)
	if err != nil {
		return h, fmt.Errorf("%w: reading dimension: %v", ErrFormat, err)
	}
	h.dim = int(dim)
	if h.dim <= 0 {
		return h, fmt.Errorf("%w: non-positive dimension %d", ErrFormat, h.dim)
	}

	m, err := readU64(r)
	if err != nil {
		return h, err
	}
	h.m = int(m)

	efc, err := readU64(r)
	if err != nil {
		return h, err
	}
	h.efConstruction = int(efc)

	maxElements, err := readU64(r)
	if err != nil {
		return h, err
	}
	h.maxElements = int(maxElements)

	n, err := readU64(r)
	if err != nil {
		return h, err
	}
	h.n = n
	if n > maxElements {
		return h, fmt.Errorf("%w: node count %d exceeds max_elements %d", ErrFormat, n, maxElements)
	}

	entry, err := readU64(r)
	if err != nil {
		return h, err
	}
	h.entryPoint = entry

	maxLevel, err := readU32(r)
	if err != nil {
		return h, err
	}
	h.maxLevel = int(int32(maxLevel))

	rngState, err := readU64(r)
	if err != nil {
		return h, err
	}
	h.rngState = rngState

	return h, nil
}

func readNode(r byteReader, m, dim, elemSize int) (hnsw.NodeRecord, error) {
	var rec hnsw.NodeRecord

	level, err := readU32(r)
	if err != nil {
		return rec, err
	}
	rec.Level = int(level)

	label, err := readU64(r)
	if err != nil {
		return rec, err
	}
	rec.Label = label

	var deletedBuf [1]byte
	if _, err := r.Read(deletedBuf[:]); err != nil {
		return rec, err
	}
	rec.Deleted = deletedBuf[0] != 0

	rec.Neighbors = make([][]uint32, rec.Level+1)

	layer0, err := readNeighborLayer(r, 2*m)
	if err != nil {
		return rec, err
	}
	rec.Neighbors[0] = layer0

	for l := 1; l <= rec.Level; l++ {
		ns, err := readNeighborLayer(r, m)
		if err != nil {
			return rec, err
		}
		rec.Neighbors[l] = ns
	}

	vector := make([]byte, dim*elemSize)
	if _, err := r.Read(vector); err != nil {
		return rec, err
	}
	rec.Vector = vector

	return rec, nil
}

func readNeighborLayer(r byteReader, capacity int) ([]uint32, error) {
	count, err := readU16(r)
	if err != nil {
		return nil, err
	}
	slots := make([]uint32, capacity)
	for i := range slots {
		v, err := readU32(r)
		if err != nil {
			return nil, err
		}
		slots[i] = v
	}
	if int(count) > capacity {
		return nil, fmt.Errorf("%w: neighbor count %d exceeds capacity %d", ErrFormat, count, capacity)
	}
	return slots[:count], nil
}

func readU16(r byteReader) (uint16, error) {
	var b [2]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint16(b[:]), nil
}

func readU32(r byteReader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint32(b[:]), nil
}

func readU64(r byteReader) (uint64, error) {
	var b [8]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint64(b[:]), nil
}
