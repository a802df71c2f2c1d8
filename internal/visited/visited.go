// Package visited provides a reusable "visited node" marker for graph
// traversals, handed out from a sync.Pool instead of allocated fresh on
// every search.
package visited

import "sync"

// Set marks internal node ids as visited during a single traversal. It
// is stamped with a generation counter rather than cleared between
// uses: Reset just bumps the generation, so a Set can be reused across
// many searches without ever zeroing its backing array.
type Set struct {
	marks []uint32
	gen   uint32
}

// newSet allocates a Set sized for n nodes.
func newSet(n int) *Set {
	return &Set{marks: make([]uint32, n)}
}

// Reset prepares the set for a new traversal over n nodes, growing the
// backing array if needed.
func (s *Set) Reset(n int) {
	if len(s.marks) < n {
		s.marks = make([]uint32, n)
		s.gen = 0
	}
	s.gen++
	if s.gen == 0 {
		// Wrapped around; the zero value would otherwise look "visited"
		// against stale entries, so clear explicitly and restart at 1.
		for i := range s.marks {
			s.marks[i] = 0
		}
		s.gen = 1
	}
}

// Visit marks id visited and reports whether it was already marked.
func (s *Set) Visit(id uint32) (alreadyVisited bool) {
	if s.marks[id] == s.gen {
		return true
	}
	s.marks[id] = s.gen
	return false
}

// IsVisited reports whether id has been marked in the current generation.
func (s *Set) IsVisited(id uint32) bool {
	return s.marks[id] == s.gen
}

// Pool hands out Sets sized for a given node capacity. Callers Get a Set
// for the duration of one traversal and Put it back when done.
type Pool struct {
	mu   sync.Mutex
	pool sync.Pool
	n    int
}

// NewPool creates a Pool whose Sets are sized for up to n nodes.
func NewPool(n int) *Pool {
	p := &Pool{n: n}
	p.pool.New = func() interface{} {
		p.mu.Lock()
		n := p.n
		p.mu.Unlock()
		return newSet(n)
	}
	return p
}

// Get returns a Set ready for a fresh traversal, reset against the
// pool's current capacity.
func (p *Pool) Get() *Set {
	s := p.pool.Get().(*Set)
	p.mu.Lock()
	n := p.n
	p.mu.Unlock()
	s.Reset(n)
	return s
}

// Put returns s to the pool for reuse.
func (p *Pool) Put(s *Set) {
	p.pool.Put(s)
}

// Grow raises the node capacity future Gets will reset against. Sets
// already checked out keep their old capacity until their next Reset.
func (p *Pool) Grow(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n > p.n {
		p.n = n
	}
}
