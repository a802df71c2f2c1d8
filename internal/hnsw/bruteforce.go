package hnsw

import (
	"fmt"
	"sort"
)

// bruteForceThreshold is the node count below which a linear scan is
// used instead of graph traversal. The count includes soft-deleted
// nodes. A graph with fewer nodes than this is too sparse for layer search to be meaningfully better than a
// scan, and a scan sidesteps any degenerate small-graph edge case.
const bruteForceThreshold = 32

// bruteForceQuery scans every node linearly and returns the k closest
// non-deleted labels, used as the small-N fallback below bruteForceThreshold.
func (g *Graph) bruteForceQuery(q []float32, k int) ([]Result, error) {
	g.structMu.RLock()
	n := g.n
	g.structMu.RUnlock()

	type scored struct {
		label    uint64
		distance float32
	}
	all := make([]scored, 0, n)

	for id := uint32(0); id < n; id++ {
		nd := g.nodeAt(id)
		if nd.deleted.Load() {
			continue
		}
		buf := make([]float32, g.dim)
		g.backend.Decode(nd.vector, buf)
		all = append(all, scored{label: nd.label, distance: g.dist(q, buf)})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].distance == all[j].distance {
			return all[i].label < all[j].label
		}
		return all[i].distance < all[j].distance
	})

	if len(all) < k {
		return nil, errInsufficientResults(len(all), k)
	}

	out := make([]Result, k)
	for i := 0; i < k; i++ {
		out[i] = Result{Label: all[i].label, Distance: all[i].distance}
	}
	return out, nil
}

func errInsufficientResults(got, want int) error {
	return fmt.Errorf("%w: found %d of %d requested", ErrInsufficientResults, got, want)
}
