package codec

import (
	"fmt"

	"github.com/voyagraph/voyagraph/internal/hnsw"
)

// Save writes g to sink in the "VOY1" format: header, N fixed-layout
// per-node blocks in internal-id order, then a
// whole-file CRC-32 (IEEE) trailer.
func Save(g *hnsw.Graph, sink Sink) error {
	cw := newCRCWriter(sink)

	if err := writeHeader(cw, g); err != nil {
		return fmt.Errorf("codec: write header: %w", err)
	}

	n := g.Len()
	m := g.M()
	for id := 0; id < n; id++ {
		rec := g.NodeRecordAt(uint32(id))
		if err := writeNode(cw, rec, m); err != nil {
			return fmt.Errorf("codec: write node %d: %w", id, err)
		}
	}

	if err := writeU32(cw, cw.sum()); err != nil {
		return fmt.Errorf("codec: write trailer: %w", err)
	}
	return nil
}

func writeHeader(w *crcWriter, g *hnsw.Graph) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}
	if err := writeU32(w, formatVersion); err != nil {
		return err
	}
	if _, err := w.Write([]byte{spaceTag(g.Space())}); err != nil {
		return err
	}
	if _, err := w.Write([]byte{storageTag(g.StorageKind())}); err != nil {
		return err
	}
	if err := writeU32(w, uint32(g.Dim())); err != nil {
		return err
	}
	if err := writeU64(w, uint64(g.M())); err != nil {
		return err
	}
	if err := writeU64(w, uint64(g.EfConstruction())); err != nil {
		return err
	}
	if err := writeU64(w, uint64(g.MaxElements())); err != nil {
		return err
	}
	if err := writeU64(w, uint64(g.Len())); err != nil {
		return err
	}

	entry, ok := g.EntryPoint()
	entryOnDisk := noEntryOnDisk
	if ok {
		entryOnDisk = uint64(entry)
	}
	if err := writeU64(w, entryOnDisk); err != nil {
		return err
	}

	if err := writeU32(w, uint32(int32(g.MaxLevel()))); err != nil {
		return err
	}
	if err := writeU64(w, g.RNGState()); err != nil {
		return err
	}
	return nil
}

func writeNode(w *crcWriter, rec hnsw.NodeRecord, m int) error {
	if err := writeU32(w, uint32(rec.Level)); err != nil {
		return err
	}
	if err := writeU64(w, rec.Label); err != nil {
		return err
	}
	deletedByte := byte(0)
	if rec.Deleted {
		deletedByte = 1
	}
	if _, err := w.Write([]byte{deletedByte}); err != nil {
		return err
	}

	if err := writeNeighborLayer(w, rec.Neighbors, 0, 2*m); err != nil {
		return err
	}
	for l := 1; l <= rec.Level; l++ {
		if err := writeNeighborLayer(w, rec.Neighbors, l, m); err != nil {
			return err
		}
	}

	if _, err := w.Write(rec.Vector); err != nil {
		return err
	}
	return nil
}

func writeNeighborLayer(w *crcWriter, neighbors [][]uint32, layer, capacity int) error {
	var list []uint32
	if layer < len(neighbors) {
		list = neighbors[layer]
	}
	if err := writeU16(w, uint16(len(list))); err != nil {
		return err
	}
	slots := make([]uint32, capacity)
	copy(slots, list)
	for _, s := range slots {
		if err := writeU32(w, s); err != nil {
			return err
		}
	}
	return nil
}

func writeU16(w *crcWriter, v uint16) error {
	var b [2]byte
	byteOrder.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeU32(w *crcWriter, v uint32) error {
	var b [4]byte
	byteOrder.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeU64(w *crcWriter, v uint64) error {
	var b [8]byte
	byteOrder.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}
