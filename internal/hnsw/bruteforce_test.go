package hnsw

import "testing"

func TestBruteForceUsedBelowThreshold(t *testing.T) {
	g := buildTestGraph(t, bruteForceThreshold-1, 4, 8, 9)
	if g.Len() >= bruteForceThreshold {
		t.Fatalf("test setup error: Len() = %d, want < %d", g.Len(), bruteForceThreshold)
	}

	results, err := g.Query([]float32{0, 0, 0, 0}, 3, 0)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Fatalf("results not sorted ascending: %v", results)
		}
	}
}

func TestBimapBijection(t *testing.T) {
	g := buildTestGraph(t, 50, 4, 8, 17)

	seen := make(map[uint64]bool)
	for _, label := range g.Labels() {
		if seen[label] {
			t.Fatalf("duplicate label %d in bimap", label)
		}
		seen[label] = true

		id, ok := g.labelFor(label)
		if !ok {
			t.Fatalf("labelFor(%d) not found after Labels() listed it", label)
		}
		nd := g.nodeAt(id)
		if nd.label != label {
			t.Fatalf("node %d has label %d, bimap says %d", id, nd.label, label)
		}
	}
	if len(seen) != g.Len() {
		t.Fatalf("saw %d distinct labels, want %d", len(seen), g.Len())
	}
}
