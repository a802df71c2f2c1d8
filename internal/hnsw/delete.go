package hnsw

import "fmt"

// MarkDeleted flips the deleted flag for label. Neighbor lists and the
// vector payload are left untouched; the node's edges still contribute
// to graph connectivity for other traversals.
func (g *Graph) MarkDeleted(label uint64) error {
	id, ok := g.labelFor(label)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownLabel, label)
	}
	g.nodeAt(id).deleted.Store(true)
	return nil
}

// UnmarkDeleted clears the deleted flag for label, restoring it as an
// eligible query result.
func (g *Graph) UnmarkDeleted(label uint64) error {
	id, ok := g.labelFor(label)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownLabel, label)
	}
	g.nodeAt(id).deleted.Store(false)
	return nil
}

// IsDeleted reports whether label is currently marked deleted.
func (g *Graph) IsDeleted(label uint64) (bool, error) {
	id, ok := g.labelFor(label)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownLabel, label)
	}
	return g.nodeAt(id).deleted.Load(), nil
}

// GetVector decodes and returns the stored vector for label, regardless
// of deleted status.
func (g *Graph) GetVector(label uint64) ([]float32, error) {
	id, ok := g.labelFor(label)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLabel, label)
	}
	return g.decodedVector(id), nil
}

// Labels returns every live or deleted label currently mapped, in no
// particular order.
func (g *Graph) Labels() []uint64 {
	g.structMu.RLock()
	defer g.structMu.RUnlock()

	out := make([]uint64, 0, len(g.labelToInternal))
	for label := range g.labelToInternal {
		out = append(out, label)
	}
	return out
}
