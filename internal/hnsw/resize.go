package hnsw

import "fmt"

// growLocked reallocates the arena and visited pool to newMax. Caller
// must hold structMu for writing.
func (g *Graph) growLocked(newMax int) {
	if newMax <= int(g.maxElements) {
		return
	}
	newArena := make([]*node, newMax)
	copy(newArena, g.arena)
	g.arena = newArena
	g.maxElements = uint32(newMax)
	g.visited.Grow(newMax)
}

// Resize reallocates graph storage to newMax, copying existing records
// verbatim. It fails with ErrInvalidArgument if newMax < N.
func (g *Graph) Resize(newMax int) error {
	g.structMu.Lock()
	defer g.structMu.Unlock()

	if newMax < int(g.n) {
		return fmt.Errorf("%w: new_max %d < current size %d", ErrInvalidArgument, newMax, g.n)
	}

	newArena := make([]*node, newMax)
	copy(newArena, g.arena)
	g.arena = newArena
	g.maxElements = uint32(newMax)
	g.visited.Grow(newMax)
	return nil
}
