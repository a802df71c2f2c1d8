package hnsw

import (
	"fmt"

	"github.com/voyagraph/voyagraph/internal/distance"
)

// Insert adds v under label, returning ErrDuplicateLabel if label is
// already live. Re-inserting a previously soft-deleted label reuses its
// internal id and clears the deleted flag rather than allocating a new
// one.
func (g *Graph) Insert(v []float32, label uint64) error {
	if len(v) != g.dim {
		return fmt.Errorf("%w: vector length %d != %d", ErrInvalidArgument, len(v), g.dim)
	}

	vecCopy := make([]float32, g.dim)
	copy(vecCopy, v)
	if g.space == distance.Cosine {
		distance.Normalize(vecCopy)
	}

	encoded := make([]byte, g.dim*g.backend.ElemSize())
	g.backend.Encode(vecCopy, encoded)

	level := g.rng.Level(g.mL)
	nd := newNode(label, level, encoded, g.m)

	g.structMu.Lock()
	existingID, exists := g.labelToInternal[label]
	var id uint32
	var old *node
	if exists {
		if !g.arena[existingID].deleted.Load() {
			g.structMu.Unlock()
			return fmt.Errorf("%w: label %d", ErrDuplicateLabel, label)
		}
		id = existingID
		old = g.arena[id]
	} else {
		if g.n >= g.maxElements {
			newMax := g.maxElements * 2
			if newMax == 0 {
				newMax = 1
			}
			g.growLocked(int(newMax))
		}
		id = g.n
		g.n++
	}
	g.arena[id] = nd
	g.labelToInternal[label] = id
	g.structMu.Unlock()

	// A reused slot's old edges are one-directional once the slot is
	// overwritten below: other nodes still list id as a neighbor, but id
	// no longer reciprocates. Strip those stale edges first.
	if old != nil {
		g.unlinkNode(id, old)
	}

	g.structMu.Lock()

	firstEverNode := g.entryPoint == noEntry
	if firstEverNode {
		g.entryPoint = id
		g.maxLevel = level
		g.structMu.Unlock()
		return nil
	}

	entry := g.entryPoint
	maxLevel := g.maxLevel
	g.structMu.Unlock()

	var vecEncoded []byte
	if g.supportsEncodedEuclidean() {
		vecEncoded = encoded
	}

	cur := entry
	for layer := maxLevel; layer >= level+1; layer-- {
		cur = g.greedyDescend(vecCopy, vecEncoded, cur, layer)
	}

	entries := []uint32{cur}
	top := level
	if maxLevel < top {
		top = maxLevel
	}
	for layer := top; layer >= 0; layer-- {
		found := g.searchLayer(vecCopy, vecEncoded, entries, g.efConstruction, layer)
		selected := g.selectNeighbors(vecCopy, found, g.m)

		next := make([]uint32, len(selected))
		for i, c := range selected {
			g.connect(id, c.id, layer)
			next[i] = c.id
		}
		if len(next) > 0 {
			entries = next
		}
	}

	g.structMu.Lock()
	if level > g.maxLevel {
		g.entryPoint = id
		g.maxLevel = level
	}
	g.structMu.Unlock()

	return nil
}
