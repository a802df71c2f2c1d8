package hnsw

import (
	"sync"
	"sync/atomic"
)

// node is one graph element, identified by its position in the arena.
// neighbors[0] holds layer-0 edges (capacity 2M); neighbors[ℓ>0] holds
// upper-layer edges (capacity M). The neighbor-list lock guards only
// the neighbors slice; deleted is independent and lock-free so queries
// never block on it.
type node struct {
	mu sync.Mutex

	label   uint64
	level   int
	deleted atomic.Bool

	neighbors [][]uint32
	vector    []byte
}

func newNode(label uint64, level int, vector []byte, m int) *node {
	n := &node{
		label:     label,
		level:     level,
		neighbors: make([][]uint32, level+1),
		vector:    vector,
	}
	n.neighbors[0] = make([]uint32, 0, 2*m)
	for l := 1; l <= level; l++ {
		n.neighbors[l] = make([]uint32, 0, m)
	}
	return n
}

func neighborCapacity(layer, m int) int {
	if layer == 0 {
		return 2 * m
	}
	return m
}
