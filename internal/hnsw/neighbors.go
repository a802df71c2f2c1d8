package hnsw

import "sort"

// selectNeighbors applies the diversity-preserving heuristic: walking
// candidates from closest to farthest, accept c into R iff c is closer
// to v than to every node already accepted into R. Stop once |R| = cap.
//
// This is the exact heuristic (accept c iff dist(v,c) < dist(c,r) for
// every already-accepted r), not an approximate threshold check.
func (g *Graph) selectNeighbors(v []float32, candidates []candidate, cap int) []candidate {
	sorted := make([]candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].distance == sorted[j].distance {
			return sorted[i].id < sorted[j].id
		}
		return sorted[i].distance < sorted[j].distance
	})

	selected := make([]candidate, 0, cap)
	for _, c := range sorted {
		if len(selected) == cap {
			break
		}
		if g.isDiverse(v, c, selected) {
			selected = append(selected, c)
		}
	}
	return selected
}

// isDiverse reports whether c should be accepted into selected: it must
// be strictly closer to v than to every node already in selected.
func (g *Graph) isDiverse(v []float32, c candidate, selected []candidate) bool {
	cVec := g.decodedVector(c.id)
	for _, r := range selected {
		rVec := g.decodedVector(r.id)
		if g.dist(cVec, rVec) <= g.dist(v, cVec) {
			return false
		}
	}
	return true
}

func (g *Graph) decodedVector(id uint32) []float32 {
	nd := g.nodeAt(id)
	buf := make([]float32, g.dim)
	g.backend.Decode(nd.vector, buf)
	return buf
}

// replaceNeighbors truncates n's neighbor list at layer to the result
// of re-running the heuristic over its current neighbors plus the
// candidate id, breaking ties by ascending neighbor id for determinism.
func (g *Graph) replaceNeighbors(id uint32, layer int, extra uint32) {
	n := g.nodeAt(id)
	vVec := g.decodedVector(id)

	n.mu.Lock()
	current := append([]uint32(nil), n.neighbors[layer]...)
	n.mu.Unlock()

	seen := make(map[uint32]bool, len(current)+1)
	cands := make([]candidate, 0, len(current)+1)
	for _, w := range current {
		if seen[w] || w == id {
			continue
		}
		seen[w] = true
		cands = append(cands, candidate{id: w, distance: g.dist(vVec, g.decodedVector(w))})
	}
	if !seen[extra] && extra != id {
		cands = append(cands, candidate{id: extra, distance: g.dist(vVec, g.decodedVector(extra))})
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].distance == cands[j].distance {
			return cands[i].id < cands[j].id
		}
		return cands[i].distance < cands[j].distance
	})

	capAt := neighborCapacity(layer, g.m)
	selected := g.selectNeighbors(vVec, cands, capAt)

	out := make([]uint32, len(selected))
	for i, c := range selected {
		out[i] = c.id
	}

	n.mu.Lock()
	n.neighbors[layer] = out
	n.mu.Unlock()

	// Drop the reverse edge from every candidate the heuristic did not
	// keep, so the pruned edge disappears from both endpoints.
	kept := make(map[uint32]bool, len(out))
	for _, w := range out {
		kept[w] = true
	}
	for _, c := range cands {
		if kept[c.id] {
			continue
		}
		wn := g.nodeAt(c.id)
		wn.mu.Lock()
		removeEdge(wn, layer, id)
		wn.mu.Unlock()
	}
}

// connect adds a bidirectional edge u <-> r at layer, pruning r's
// neighbor list via the heuristic if the edge would overflow its
// capacity. Both endpoints are locked in ascending internal-id order
// to avoid deadlock with concurrent inserts.
func (g *Graph) connect(u, r uint32, layer int) {
	lo, hi := u, r
	if lo > hi {
		lo, hi = hi, lo
	}

	loNode, hiNode := g.nodeAt(lo), g.nodeAt(hi)

	loNode.mu.Lock()
	if lo != hi {
		hiNode.mu.Lock()
	}

	addEdge(loNode, layer, hi)
	if lo != hi {
		addEdge(hiNode, layer, lo)
	}

	loOverflow := len(loNode.neighbors[layer]) > neighborCapacity(layer, g.m)
	var hiOverflow bool
	if lo != hi {
		hiOverflow = len(hiNode.neighbors[layer]) > neighborCapacity(layer, g.m)
	}

	if lo != hi {
		hiNode.mu.Unlock()
	}
	loNode.mu.Unlock()

	if loOverflow {
		g.replaceNeighbors(lo, layer, hi)
	}
	if hiOverflow {
		g.replaceNeighbors(hi, layer, lo)
	}
}

// addEdge appends target to n's neighbor list at layer if not already
// present. Caller must hold n.mu.
func addEdge(n *node, layer int, target uint32) {
	for _, w := range n.neighbors[layer] {
		if w == target {
			return
		}
	}
	n.neighbors[layer] = append(n.neighbors[layer], target)
}

// removeEdge deletes target from n's neighbor list at layer, if present.
// Caller must hold n.mu.
func removeEdge(n *node, layer int, target uint32) {
	list := n.neighbors[layer]
	for i, w := range list {
		if w == target {
			n.neighbors[layer] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// unlinkNode removes id from the neighbor list of every node that old
// lists as a neighbor, across every layer old participated in. Called before
// a soft-deleted label's slot is handed to a fresh node on reinsertion,
// so nodes that still reference id as a neighbor are not left pointing
// at a node that no longer reciprocates.
func (g *Graph) unlinkNode(id uint32, old *node) {
	for layer := 0; layer <= old.level; layer++ {
		old.mu.Lock()
		nbrs := append([]uint32(nil), old.neighbors[layer]...)
		old.mu.Unlock()

		for _, w := range nbrs {
			if w == id {
				continue
			}
			wn := g.nodeAt(w)
			wn.mu.Lock()
			removeEdge(wn, layer, id)
			wn.mu.Unlock()
		}
	}
}
