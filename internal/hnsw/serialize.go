package hnsw

import "fmt"

// NodeRecord is the serialization-friendly view of one node, used by
// the codec package to read and write the on-disk format without
// reaching into unexported node internals.
type NodeRecord struct {
	Label     uint64
	Level     int
	Deleted   bool
	Neighbors [][]uint32 // one slice per layer, 0..Level
	Vector    []byte     // encoded payload, ElemSize()*Dim bytes
}

// ElemSize returns the number of bytes one encoded vector element
// occupies under the graph's storage backend.
func (g *Graph) ElemSize() int { return g.backend.ElemSize() }

// EntryPoint returns the current entry point id and whether one has
// been assigned yet (false only for a never-inserted-into graph).
func (g *Graph) EntryPoint() (uint32, bool) {
	g.structMu.RLock()
	defer g.structMu.RUnlock()
	return g.entryPoint, g.entryPoint != noEntry
}

// MaxLevel returns the current maximum level across all nodes.
func (g *Graph) MaxLevel() int {
	g.structMu.RLock()
	defer g.structMu.RUnlock()
	return g.maxLevel
}

// RNGState returns the shared PRNG's current 64-bit state for
// persistence.
func (g *Graph) RNGState() uint64 {
	return g.rng.State()
}

// NodeRecordAt snapshots node id into a NodeRecord.
func (g *Graph) NodeRecordAt(id uint32) NodeRecord {
	nd := g.nodeAt(id)
	nd.mu.Lock()
	neighbors := make([][]uint32, len(nd.neighbors))
	for l, ns := range nd.neighbors {
		neighbors[l] = append([]uint32(nil), ns...)
	}
	nd.mu.Unlock()

	vector := append([]byte(nil), nd.vector...)
	return NodeRecord{
		Label:     nd.label,
		Level:     nd.level,
		Deleted:   nd.deleted.Load(),
		Neighbors: neighbors,
		Vector:    vector,
	}
}

// Restore rebuilds a Graph from a previously captured set of node
// records plus top-level state, bypassing Insert entirely so the
// result is byte-for-byte faithful to what was saved.
func Restore(cfg Config, records []NodeRecord, entryPoint uint32, hasEntry bool, maxLevel int, rngState uint64) (*Graph, error) {
	if cfg.MaxElements < len(records) {
		cfg.MaxElements = len(records)
	}
	g, err := New(cfg)
	if err != nil {
		return nil, err
	}

	for id, rec := range records {
		if len(rec.Vector) != g.dim*g.backend.ElemSize() {
			return nil, fmt.Errorf("%w: node %d vector payload size mismatch", ErrInvalidArgument, id)
		}
		n := &node{
			label:     rec.Label,
			level:     rec.Level,
			neighbors: rec.Neighbors,
			vector:    rec.Vector,
		}
		n.deleted.Store(rec.Deleted)
		g.arena[id] = n
		g.labelToInternal[rec.Label] = uint32(id)
	}
	g.n = uint32(len(records))

	g.structMu.Lock()
	if hasEntry {
		g.entryPoint = entryPoint
	} else {
		g.entryPoint = noEntry
	}
	g.maxLevel = maxLevel
	g.structMu.Unlock()

	g.rng.Restore(rngState)

	return g, nil
}
