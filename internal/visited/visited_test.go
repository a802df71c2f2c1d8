package visited

import "testing"

func TestSetVisit(t *testing.T) {
	s := newSet(8)
	s.Reset(8)

	if s.IsVisited(3) {
		t.Fatal("node 3 should not be visited yet")
	}
	if already := s.Visit(3); already {
		t.Fatal("first Visit(3) should report not-already-visited")
	}
	if !s.IsVisited(3) {
		t.Fatal("node 3 should be visited after Visit")
	}
	if already := s.Visit(3); !already {
		t.Fatal("second Visit(3) should report already-visited")
	}
	if s.IsVisited(4) {
		t.Fatal("node 4 should be unaffected by visiting node 3")
	}
}

func TestSetResetClearsAcrossGenerations(t *testing.T) {
	s := newSet(4)
	s.Reset(4)
	s.Visit(0)
	s.Visit(1)

	s.Reset(4)
	if s.IsVisited(0) || s.IsVisited(1) {
		t.Fatal("Reset should start a fresh generation with nothing visited")
	}
}

func TestSetResetGrows(t *testing.T) {
	s := newSet(2)
	s.Reset(2)
	s.Reset(10)
	if len(s.marks) < 10 {
		t.Fatalf("Reset(10) should grow backing array, len = %d", len(s.marks))
	}
	if s.IsVisited(9) {
		t.Fatal("newly grown region should not appear visited")
	}
}

func TestPoolGetPut(t *testing.T) {
	p := NewPool(16)
	s := p.Get()
	s.Visit(5)
	if !s.IsVisited(5) {
		t.Fatal("node 5 should be visited")
	}
	p.Put(s)

	s2 := p.Get()
	if s2.IsVisited(5) {
		t.Fatal("Get after Put should hand back a Set reset to a fresh generation")
	}
}

func TestPoolGrow(t *testing.T) {
	p := NewPool(4)
	s := p.Get()
	p.Put(s)

	p.Grow(100)
	s2 := p.Get()
	if len(s2.marks) < 100 {
		t.Fatalf("Get after Grow(100) should have capacity >= 100, got %d", len(s2.marks))
	}
}
