package hnsw

import "container/heap"

// candidate is one (node, distance) pair tracked during a layer search.
type candidate struct {
	id       uint32
	distance float32
}

// minHeap pops the closest candidate first; used as the expansion
// frontier during search-layer.
type minHeap []candidate

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].distance < h[j].distance }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func newMinHeap() *minHeap {
	h := make(minHeap, 0, 16)
	return &h
}

func (h *minHeap) push(c candidate) { heap.Push(h, c) }
func (h *minHeap) pop() candidate   { return heap.Pop(h).(candidate) }

// maxHeap pops the farthest candidate first; used to cap the result set
// at ef and evict the worst member when a closer one arrives.
type maxHeap []candidate

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].distance > h[j].distance }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func newMaxHeap() *maxHeap {
	h := make(maxHeap, 0, 16)
	return &h
}

func (h *maxHeap) push(c candidate) { heap.Push(h, c) }
func (h *maxHeap) pop() candidate   { return heap.Pop(h).(candidate) }
func (h *maxHeap) top() candidate   { return (*h)[0] }
