package voyagraph

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voyagraph/voyagraph/internal/codec"
	"github.com/voyagraph/voyagraph/internal/distance"
	"github.com/voyagraph/voyagraph/internal/hnsw"
	"github.com/voyagraph/voyagraph/internal/obs"
	"github.com/voyagraph/voyagraph/internal/storage"
)

// Result is one (label, distance) pair returned from a query, sorted
// ascending by distance.
type Result = hnsw.Result

// Index is a concurrent HNSW approximate nearest neighbor index. All
// methods are safe for concurrent use.
type Index struct {
	g       *hnsw.Graph
	metrics *obs.Metrics
	threads atomic.Int32
}

// New constructs an empty Index over vectors of dimension dim.
func New(dim int, opts ...Option) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dim must be positive", ErrInvalidArgument)
	}

	cfg := defaultConfig(dim)
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("voyagraph: applying option: %w", err)
		}
	}

	g, err := hnsw.New(hnsw.Config{
		Dim:            cfg.dim,
		Space:          cfg.space,
		Storage:        cfg.storage,
		M:              cfg.m,
		EfConstruction: cfg.efConstruction,
		EfDefault:      cfg.efDefault,
		RNGSeed:        cfg.rngSeed,
		MaxElements:    cfg.maxElements,
	})
	if err != nil {
		return nil, err
	}

	idx := &Index{g: g}
	if cfg.metrics {
		idx.metrics = newMetricsFor(cfg)
	}
	idx.observeSize()
	return idx, nil
}

// Load reconstructs a previously Saved Index from src.
func Load(src codec.Source, opts ...Option) (*Index, error) {
	g, err := codec.Load(src)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig(g.Dim())
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("voyagraph: applying option: %w", err)
		}
	}

	idx := &Index{g: g}
	if cfg.metrics {
		idx.metrics = newMetricsFor(cfg)
		idx.metrics.LoadOps.Inc()
	}
	idx.observeSize()
	return idx, nil
}

// newMetricsFor builds an Index's Metrics against cfg's registerer, or
// a fresh private registry if none was supplied, so creating many
// Indexes in one process (or one test binary) never collides on
// Prometheus's global default registry.
func newMetricsFor(cfg config) *obs.Metrics {
	reg := cfg.registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return obs.NewMetricsWith(reg)
}

// Save writes the index to sink in the stable "VOY1" format.
func (idx *Index) Save(sink codec.Sink) error {
	if err := codec.Save(idx.g, sink); err != nil {
		return err
	}
	if idx.metrics != nil {
		idx.metrics.SaveOps.Inc()
	}
	return nil
}

// Insert adds v under label. Re-inserting a previously soft-deleted
// label is allowed and reuses its slot; inserting a still-live label
// fails with ErrDuplicateLabel.
func (idx *Index) Insert(v []float32, label uint64) error {
	start := time.Now()
	err := idx.g.Insert(v, label)
	if idx.metrics != nil {
		idx.metrics.InsertLatency.Observe(time.Since(start).Seconds())
		if err == nil {
			idx.metrics.Inserts.Inc()
			idx.observeSize()
		}
	}
	return err
}

// Query returns the k nearest non-deleted neighbors of q, or fails with
// ErrInsufficientResults if fewer than k are found. ef <= 0 uses the
// index's configured ef_default, widened to k if smaller.
func (idx *Index) Query(q []float32, k, ef int) ([]Result, error) {
	start := time.Now()
	results, err := idx.g.Query(q, k, ef)
	if idx.metrics != nil {
		idx.metrics.QueryLatency.Observe(time.Since(start).Seconds())
		idx.metrics.Queries.Inc()
		if err != nil {
			idx.metrics.QueryErrors.Inc()
		}
	}
	return results, err
}

// GetVector decodes and returns the stored vector for label.
func (idx *Index) GetVector(label uint64) ([]float32, error) {
	return idx.g.GetVector(label)
}

// GetVectors decodes and returns the stored vectors for every label in
// labels, in the same order. The first error encountered (if any) is
// returned alongside whatever partial results were decoded.
func (idx *Index) GetVectors(labels []uint64) ([][]float32, error) {
	out := make([][]float32, len(labels))
	for i, label := range labels {
		v, err := idx.g.GetVector(label)
		if err != nil {
			return out[:i], err
		}
		out[i] = v
	}
	return out, nil
}

// GetLabels returns every label currently mapped (live or deleted), in
// no particular order.
func (idx *Index) GetLabels() []uint64 {
	return idx.g.Labels()
}

// MarkDeleted flags label as deleted. Its slot and edges are retained.
func (idx *Index) MarkDeleted(label uint64) error {
	err := idx.g.MarkDeleted(label)
	if err == nil && idx.metrics != nil {
		idx.metrics.Deletes.Inc()
	}
	return err
}

// UnmarkDeleted clears the deleted flag for label.
func (idx *Index) UnmarkDeleted(label uint64) error {
	return idx.g.UnmarkDeleted(label)
}

// Resize reallocates the index's capacity to newMax, which must be >=
// the current node count.
func (idx *Index) Resize(newMax int) error {
	err := idx.g.Resize(newMax)
	if err == nil {
		idx.observeSize()
	}
	return err
}

// EfDefault returns the fallback beam width used when a query omits ef.
func (idx *Index) EfDefault() int { return idx.g.EfDefault() }

// SetEfDefault updates the fallback beam width.
func (idx *Index) SetEfDefault(ef int) error { return idx.g.SetEfDefault(ef) }

// M returns the graph degree parameter.
func (idx *Index) M() int { return idx.g.M() }

// EfConstruction returns the beam width used while building the graph.
func (idx *Index) EfConstruction() int { return idx.g.EfConstruction() }

// Dim returns the vector dimension.
func (idx *Index) Dim() int { return idx.g.Dim() }

// Space returns the configured distance metric.
func (idx *Index) Space() distance.Space { return idx.g.Space() }

// Storage returns the configured vector storage precision.
func (idx *Index) Storage() storage.Kind { return idx.g.StorageKind() }

// Len returns the current live-and-deleted node count N.
func (idx *Index) Len() int { return idx.g.Len() }

// MaxElements returns the current capacity.
func (idx *Index) MaxElements() int { return idx.g.MaxElements() }

func (idx *Index) observeSize() {
	if idx.metrics != nil {
		idx.metrics.GraphSize.Set(float64(idx.g.Len()))
	}
}
