// Package hnsw implements the graph storage and HNSW engine: node
// records, insertion, beam search, soft delete, and resize.
package hnsw

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/voyagraph/voyagraph/internal/distance"
	"github.com/voyagraph/voyagraph/internal/rng"
	"github.com/voyagraph/voyagraph/internal/storage"
	"github.com/voyagraph/voyagraph/internal/visited"
)

// Sentinel errors surfaced by the engine. The root façade re-exports
// these under its own names.
var (
	ErrInvalidArgument     = errors.New("hnsw: invalid argument")
	ErrUnknownLabel        = errors.New("hnsw: unknown label")
	ErrDuplicateLabel      = errors.New("hnsw: duplicate label")
	ErrInsufficientResults = errors.New("hnsw: insufficient results")
	ErrCapacity            = errors.New("hnsw: capacity error")
)

// noEntry marks an empty graph: no entry point assigned yet.
const noEntry = ^uint32(0)

// Config carries the immutable-after-construction parameters of a Graph.
type Config struct {
	Dim            int
	Space          distance.Space
	Storage        storage.Kind
	M              int
	EfConstruction int
	RNGSeed        int64
	MaxElements    int
	EfDefault      int
}

// Result is one (label, distance) pair returned from a query, sorted
// ascending by distance.
type Result struct {
	Label    uint64
	Distance float32
}

// Graph is the HNSW arena: a flat, fixed-capacity array of node records
// plus the bookkeeping (entry point, max level, label bimap) needed to
// traverse and grow it.
type Graph struct {
	// structMu guards arena, n, maxElements, entryPoint, maxLevel, and
	// labelToInternal. It is held only briefly: id allocation, entry
	// point publication, and resize. It is never held while computing
	// distances or walking neighbor edges.
	structMu sync.RWMutex

	dim            int
	space          distance.Space
	dist           distance.Func
	storageKind    storage.Kind
	backend        storage.Backend
	m              int
	efConstruction int
	mL             float64

	efDefault atomic.Int32

	arena       []*node
	n           uint32
	maxElements uint32
	entryPoint  uint32
	maxLevel    int

	labelToInternal map[uint64]uint32

	rng     *rng.Source
	visited *visited.Pool
}

// New allocates an empty Graph per cfg.
func New(cfg Config) (*Graph, error) {
	if cfg.Dim <= 0 {
		return nil, fmt.Errorf("%w: dim must be positive", ErrInvalidArgument)
	}
	if cfg.M <= 0 {
		return nil, fmt.Errorf("%w: M must be positive", ErrInvalidArgument)
	}
	if cfg.EfConstruction <= 0 {
		return nil, fmt.Errorf("%w: ef_construction must be positive", ErrInvalidArgument)
	}
	if cfg.MaxElements <= 0 {
		return nil, fmt.Errorf("%w: max_elements must be positive", ErrInvalidArgument)
	}

	distFn, err := distance.For(cfg.Space)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	backend, err := storage.For(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	efDefault := cfg.EfDefault
	if efDefault <= 0 {
		efDefault = cfg.EfConstruction
	}

	g := &Graph{
		dim:             cfg.Dim,
		space:           cfg.Space,
		dist:            distFn,
		storageKind:     cfg.Storage,
		backend:         backend,
		m:               cfg.M,
		efConstruction:  cfg.EfConstruction,
		mL:              1 / math.Log(float64(cfg.M)),
		arena:           make([]*node, cfg.MaxElements),
		maxElements:     uint32(cfg.MaxElements),
		entryPoint:      noEntry,
		maxLevel:        -1,
		labelToInternal: make(map[uint64]uint32),
		rng:             rng.New(cfg.RNGSeed),
		visited:         visited.NewPool(cfg.MaxElements),
	}
	g.efDefault.Store(int32(efDefault))
	return g, nil
}

func (g *Graph) Dim() int                    { return g.dim }
func (g *Graph) Space() distance.Space       { return g.space }
func (g *Graph) StorageKind() storage.Kind   { return g.storageKind }
func (g *Graph) M() int                      { return g.m }
func (g *Graph) EfConstruction() int         { return g.efConstruction }

// Len returns the current node count N.
func (g *Graph) Len() int {
	g.structMu.RLock()
	defer g.structMu.RUnlock()
	return int(g.n)
}

// MaxElements returns the current capacity.
func (g *Graph) MaxElements() int {
	g.structMu.RLock()
	defer g.structMu.RUnlock()
	return int(g.maxElements)
}

// EfDefault returns the fallback beam width used when a query omits ef.
func (g *Graph) EfDefault() int {
	return int(g.efDefault.Load())
}

// SetEfDefault updates the fallback beam width.
func (g *Graph) SetEfDefault(ef int) error {
	if ef <= 0 {
		return fmt.Errorf("%w: ef_default must be positive", ErrInvalidArgument)
	}
	g.efDefault.Store(int32(ef))
	return nil
}

func (g *Graph) nodeAt(id uint32) *node {
	g.structMu.RLock()
	n := g.arena[id]
	g.structMu.RUnlock()
	return n
}

// labelFor resolves an external label to its internal id.
func (g *Graph) labelFor(label uint64) (uint32, bool) {
	g.structMu.RLock()
	defer g.structMu.RUnlock()
	id, ok := g.labelToInternal[label]
	return id, ok
}
