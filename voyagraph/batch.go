package voyagraph

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// Threads returns the default worker count InsertBatch/QueryBatch use
// when called with threads == 0.
func (idx *Index) Threads() int {
	n := int(idx.threads.Load())
	if n == 0 {
		return 1
	}
	return n
}

// SetThreads sets the default worker count InsertBatch/QueryBatch use
// when called with threads == 0. Negative means "all available cores".
func (idx *Index) SetThreads(n int) {
	idx.threads.Store(int32(n))
}

// resolveThreads turns a bulk call's thread-count argument into a
// concrete worker count: negative means all available cores, zero
// means the index's configured default, and any positive value is used
// as-is (1 meaning single-threaded).
func (idx *Index) resolveThreads(threads int) int {
	if threads == 0 {
		threads = idx.Threads()
	}
	if threads < 0 {
		threads = runtime.NumCPU()
	}
	if threads < 1 {
		threads = 1
	}
	return threads
}

// runBulk partitions [0, n) across threads transient workers by dynamic
// index-stealing from a shared atomic counter, joins all of them, and
// returns the first error any worker produced (others are suppressed).
func runBulk(n, threads int, work func(i int) error) error {
	if n == 0 {
		return nil
	}
	if threads > n {
		threads = n
	}

	var next atomic.Int64
	var firstErr atomic.Value // stores error
	var wg sync.WaitGroup

	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= n {
					return
				}
				if err := work(i); err != nil {
					firstErr.CompareAndSwap(nil, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if v := firstErr.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// InsertBatch inserts every vector under its corresponding label,
// distributing the work across threads workers (negative: all
// available cores; 1: single-threaded; 0: the index's configured
// default). Labels must be unique within the batch; collisions surface
// as ErrDuplicateLabel from whichever worker observes them.
func (idx *Index) InsertBatch(vectors [][]float32, labels []uint64, threads int) error {
	if len(vectors) != len(labels) {
		return fmt.Errorf("%w: vectors and labels length mismatch (%d != %d)", ErrInvalidArgument, len(vectors), len(labels))
	}

	n := len(vectors)
	workers := idx.resolveThreads(threads)
	return runBulk(n, workers, func(i int) error {
		return idx.Insert(vectors[i], labels[i])
	})
}

// QueryBatch runs Query for every vector in queries, distributing the
// work across threads workers. The i-th result (or error) corresponds
// to queries[i]; a per-query error does not abort the other queries.
func (idx *Index) QueryBatch(queries [][]float32, k, ef, threads int) ([][]Result, []error) {
	n := len(queries)
	results := make([][]Result, n)
	errs := make([]error, n)

	workers := idx.resolveThreads(threads)
	runBulk(n, workers, func(i int) error {
		r, err := idx.Query(queries[i], k, ef)
		results[i] = r
		errs[i] = err
		return nil
	})

	return results, errs
}
