package hnsw

import (
	"fmt"
	"sort"

	"github.com/voyagraph/voyagraph/internal/distance"
	"github.com/voyagraph/voyagraph/internal/storage"
)

// supportsEncodedEuclidean reports whether distanceTo can take the
// EncodedEuclidean fast path: the graph's space is Euclidean and the
// configured backend implements it.
func (g *Graph) supportsEncodedEuclidean() bool {
	if g.space != distance.Euclidean {
		return false
	}
	_, ok := g.backend.(storage.EncodedEuclidean)
	return ok
}

// fastEuclideanEncode returns q encoded in the backend's own element
// format, for use as the EncodedEuclidean fast path (see
// supportsEncodedEuclidean). Returns nil when the fast path doesn't
// apply, in which case distanceTo falls back to decoding every
// candidate.
func (g *Graph) fastEuclideanEncode(q []float32) []byte {
	if !g.supportsEncodedEuclidean() {
		return nil
	}
	buf := make([]byte, g.dim*g.backend.ElemSize())
	g.backend.Encode(q, buf)
	return buf
}

// distanceTo computes the configured distance between a query and the
// payload stored at id. When qEncoded is non-nil (see
// fastEuclideanEncode), it is compared directly against the stored
// encoded bytes instead of decoding id's vector first.
func (g *Graph) distanceTo(q []float32, qEncoded []byte, id uint32) float32 {
	nd := g.nodeAt(id)
	if qEncoded != nil {
		if fe, ok := g.backend.(storage.EncodedEuclidean); ok {
			return fe.SquaredDistanceEncoded(qEncoded, nd.vector)
		}
	}
	buf := make([]float32, g.dim)
	g.backend.Decode(nd.vector, buf)
	return g.dist(q, buf)
}

// greedyDescend performs ef=1 greedy search on one layer, starting from
// entry and returning the closest node found. Used to descend upper
// layers during both insert and query.
func (g *Graph) greedyDescend(q []float32, qEncoded []byte, entry uint32, layer int) uint32 {
	best := entry
	bestDist := g.distanceTo(q, qEncoded, best)

	for {
		improved := false
		nbrs := g.nodeAt(best).neighborsAt(layer)
		for _, w := range nbrs {
			d := g.distanceTo(q, qEncoded, w)
			if d < bestDist {
				bestDist = d
				best = w
				improved = true
			}
		}
		if !improved {
			return best
		}
	}
}

// searchLayer is the beam-search primitive: maintain a min-heap of
// candidates to expand and a max-heap of the ef closest results found
// so far, expanding until no candidate can possibly improve the result
// set.
func (g *Graph) searchLayer(q []float32, qEncoded []byte, entries []uint32, ef, layer int) []candidate {
	vs := g.visited.Get()
	defer g.visited.Put(vs)

	candidates := newMinHeap()
	results := newMaxHeap()

	for _, e := range entries {
		if vs.Visit(e) {
			continue
		}
		d := g.distanceTo(q, qEncoded, e)
		c := candidateEntry(e, d)
		candidates.push(c)
		results.push(c)
	}

	for candidates.Len() > 0 {
		c := candidates.pop()
		if results.Len() >= ef && c.distance > results.top().distance {
			break
		}

		nbrs := g.nodeAt(c.id).neighborsAt(layer)
		for _, w := range nbrs {
			if vs.Visit(w) {
				continue
			}
			d := g.distanceTo(q, qEncoded, w)
			if results.Len() < ef || d < results.top().distance {
				wc := candidateEntry(w, d)
				candidates.push(wc)
				results.push(wc)
				if results.Len() > ef {
					results.pop()
				}
			}
		}
	}

	out := make([]candidate, results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = results.pop()
	}
	return out
}

func candidateEntry(id uint32, d float32) candidate {
	return candidate{id: id, distance: d}
}

// neighborsAt returns n's neighbor list at layer, or nil if n does not
// participate in that layer.
func (n *node) neighborsAt(layer int) []uint32 {
	if layer > n.level {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]uint32, len(n.neighbors[layer]))
	copy(out, n.neighbors[layer])
	return out
}

// Query runs the full HNSW search: greedy descent through the upper
// layers, then a layer-0 beam of width max(ef, k). ef <= 0 means "use
// EfDefault".
func (g *Graph) Query(q []float32, k, ef int) ([]Result, error) {
	if len(q) != g.dim {
		return nil, fmt.Errorf("%w: query dimension %d != %d", ErrInvalidArgument, len(q), g.dim)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", ErrInvalidArgument)
	}

	// Work on a private copy: the caller's slice must never be mutated.
	buf := make([]float32, g.dim)
	copy(buf, q)
	q = buf
	if g.space == distance.Cosine {
		distance.Normalize(q)
	}

	g.structMu.RLock()
	entry := g.entryPoint
	maxLevel := g.maxLevel
	g.structMu.RUnlock()

	if entry == noEntry {
		return nil, fmt.Errorf("%w: index is empty", ErrInsufficientResults)
	}

	if g.Len() < bruteForceThreshold {
		return g.bruteForceQuery(q, k)
	}

	if ef <= 0 {
		ef = g.EfDefault()
	}
	if ef < k {
		ef = k
	}

	qEncoded := g.fastEuclideanEncode(q)

	cur := entry
	for layer := maxLevel; layer >= 1; layer-- {
		cur = g.greedyDescend(q, qEncoded, cur, layer)
	}

	found := g.searchLayer(q, qEncoded, []uint32{cur}, ef, 0)

	type scored struct {
		label    uint64
		distance float32
		deleted  bool
	}
	labeled := make([]scored, len(found))
	for i, c := range found {
		nd := g.nodeAt(c.id)
		labeled[i] = scored{label: nd.label, distance: c.distance, deleted: nd.deleted.Load()}
	}
	sort.Slice(labeled, func(i, j int) bool {
		if labeled[i].distance == labeled[j].distance {
			return labeled[i].label < labeled[j].label
		}
		return labeled[i].distance < labeled[j].distance
	})

	results := make([]Result, 0, k)
	for _, s := range labeled {
		if s.deleted {
			continue
		}
		results = append(results, Result{Label: s.label, Distance: s.distance})
		if len(results) == k {
			break
		}
	}

	if len(results) < k {
		return nil, fmt.Errorf("%w: found %d of %d requested", ErrInsufficientResults, len(results), k)
	}
	return results, nil
}
