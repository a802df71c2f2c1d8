package hnsw

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/voyagraph/voyagraph/internal/distance"
	"github.com/voyagraph/voyagraph/internal/storage"
)

func TestInsertSingleVectorSelfQuery(t *testing.T) {
	g, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	v := []float32{1, 0, 0, 0}
	if err := g.Insert(v, 0); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	results, err := g.Query(v, 1, 0)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Label != 0 {
		t.Fatalf("Label = %d, want 0", results[0].Label)
	}
	if results[0].Distance != 0 {
		t.Fatalf("Distance = %v, want 0", results[0].Distance)
	}
}

func TestInsertDuplicateLabel(t *testing.T) {
	g, _ := New(testConfig())
	v := []float32{1, 0, 0, 0}
	if err := g.Insert(v, 7); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if err := g.Insert(v, 7); !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("second Insert() error = %v, want ErrDuplicateLabel", err)
	}
}

func TestInsertWrongDimension(t *testing.T) {
	g, _ := New(testConfig())
	if err := g.Insert([]float32{1, 2}, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Insert() error = %v, want ErrInvalidArgument", err)
	}
}

func TestInnerProductOrdering(t *testing.T) {
	cfg := Config{
		Dim:            2,
		Space:          distance.InnerProduct,
		Storage:        storage.F32,
		M:              16,
		EfConstruction: 200,
		RNGSeed:        1,
		MaxElements:    10,
	}
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := g.Insert([]float32{1, 0}, 10); err != nil {
		t.Fatalf("Insert(10) error: %v", err)
	}
	if err := g.Insert([]float32{0, 1}, 20); err != nil {
		t.Fatalf("Insert(20) error: %v", err)
	}
	if err := g.Insert([]float32{-1, 0}, 30); err != nil {
		t.Fatalf("Insert(30) error: %v", err)
	}

	results, err := g.Query([]float32{1, 0}, 3, 0)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	wantLabels := []uint64{10, 20, 30}
	wantDistances := []float32{0, 1, 2}
	for i, r := range results {
		if r.Label != wantLabels[i] {
			t.Fatalf("results[%d].Label = %d, want %d", i, r.Label, wantLabels[i])
		}
		if r.Distance != wantDistances[i] {
			t.Fatalf("results[%d].Distance = %v, want %v", i, r.Distance, wantDistances[i])
		}
	}
}

func randomUnitVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	var sumSq float32
	for i := range v {
		x := float32(rng.NormFloat64())
		v[i] = x
		sumSq += x * x
	}
	norm := float32(math.Sqrt(float64(sumSq)))
	for i := range v {
		v[i] /= norm
	}
	return v
}

func TestCosineSelfRecallF32(t *testing.T) {
	const n = 2000
	const dim = 32

	cfg := Config{
		Dim:            dim,
		Space:          distance.Cosine,
		Storage:        storage.F32,
		M:              16,
		EfConstruction: 200,
		RNGSeed:        42,
		MaxElements:    n,
	}
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	src := rand.New(rand.NewSource(42))
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		vectors[i] = randomUnitVector(src, dim)
		if err := g.Insert(vectors[i], uint64(i)); err != nil {
			t.Fatalf("Insert(%d) error: %v", i, err)
		}
	}

	hits := 0
	for i, v := range vectors {
		results, err := g.Query(v, 1, 200)
		if err != nil {
			t.Fatalf("Query(%d) error: %v", i, err)
		}
		if results[0].Label == uint64(i) && results[0].Distance <= 1e-5 {
			hits++
		}
	}

	if hits != n {
		t.Fatalf("self-recall = %d/%d, want %d/%d", hits, n, n, n)
	}
}

func TestI8ScaledSelfRecall(t *testing.T) {
	const n = 2000
	const dim = 32

	cfg := Config{
		Dim:            dim,
		Space:          distance.Cosine,
		Storage:        storage.I8Scaled,
		M:              16,
		EfConstruction: 200,
		RNGSeed:        42,
		MaxElements:    n,
	}
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	src := rand.New(rand.NewSource(42))
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		vectors[i] = randomUnitVector(src, dim)
		if err := g.Insert(vectors[i], uint64(i)); err != nil {
			t.Fatalf("Insert(%d) error: %v", i, err)
		}
	}

	hits := 0
	for i, v := range vectors {
		results, err := g.Query(v, 1, 200)
		if err != nil {
			t.Fatalf("Query(%d) error: %v", i, err)
		}
		if results[0].Label == uint64(i) && results[0].Distance <= 0.10 {
			hits++
		}
	}

	if float64(hits) < 0.99*n {
		t.Fatalf("self-recall = %d/%d, want >= 99%%", hits, n)
	}
}

// TestEuclideanI8ScaledFastPath exercises the EncodedEuclidean fast path
// in distanceTo: Euclidean space over an I8Scaled backend takes it for
// every distance computation in both Insert and Query. Self-recall would
// fail if the fast path's encoded-byte arithmetic disagreed with
// decode-then-Euclidean2.
func TestEuclideanI8ScaledFastPath(t *testing.T) {
	const n = 500
	const dim = 16

	cfg := Config{
		Dim:            dim,
		Space:          distance.Euclidean,
		Storage:        storage.I8Scaled,
		M:              16,
		EfConstruction: 200,
		RNGSeed:        7,
		MaxElements:    n,
	}
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !g.supportsEncodedEuclidean() {
		t.Fatal("I8Scaled + Euclidean should take the EncodedEuclidean fast path")
	}

	src := rand.New(rand.NewSource(7))
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		vectors[i] = randomUnitVector(src, dim)
		if err := g.Insert(vectors[i], uint64(i)); err != nil {
			t.Fatalf("Insert(%d) error: %v", i, err)
		}
	}

	hits := 0
	for i, v := range vectors {
		results, err := g.Query(v, 1, 200)
		if err != nil {
			t.Fatalf("Query(%d) error: %v", i, err)
		}
		if results[0].Label == uint64(i) {
			hits++
		}
	}

	if float64(hits) < 0.99*n {
		t.Fatalf("self-recall = %d/%d, want >= 99%%", hits, n)
	}
}
