package heuristic

import (
	"context"
	"testing"

	"github.com/hierarchytrix/solver/pkg/hierarchy"
	"github.com/hierarchytrix/solver/pkg/solver"
)

func buildTestGraph(t *testing.T) *hierarchy.Graph {
	t.Helper()
	g := hierarchy.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("build graph: %v", err)
		}
	}
	must(g.AddNode(hierarchy.Node{ID: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "a", Parent: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "b", Parent: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "a1", Parent: "a"}))
	must(g.AddNode(hierarchy.Node{ID: "a2", Parent: "a"}))
	must(g.AddNode(hierarchy.Node{ID: "b1", Parent: "b"}))
	must(g.AddNode(hierarchy.Node{ID: "b2", Parent: "b"}))
	must(g.AddBottomEdge("a1", "b2", nil))
	must(g.AddBottomEdge("a2", "b1", nil))
	return g
}

func TestSolveProducesPlanarLeafOrder(t *testing.T) {
	g := buildTestGraph(t)
	s := New()

	result, err := s.Solve(context.Background(), g, solver.Options{Seed: 1})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if result.Status == solver.StatusUnsolvable {
		t.Fatalf("Solve() returned unsolvable")
	}

	wantLeaves := map[string]bool{"a1": true, "a2": true, "b1": true, "b2": true}
	if len(result.LeafOrder) != len(wantLeaves) {
		t.Fatalf("LeafOrder = %v, want 4 leaves", result.LeafOrder)
	}
	for _, id := range result.LeafOrder {
		if !wantLeaves[id] {
			t.Errorf("LeafOrder contains non-leaf or unknown id %q", id)
		}
	}
}

func TestSolveNeverRegressesBelowZero(t *testing.T) {
	g := buildTestGraph(t)
	s := New()

	result, err := s.Solve(context.Background(), g, solver.Options{Seed: 42})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if result.Crossings < 0 {
		t.Errorf("Crossings = %d, want >= 0", result.Crossings)
	}
}

func TestSolveDeterministicForFixedSeed(t *testing.T) {
	g := buildTestGraph(t)

	first, err := New().Solve(context.Background(), g, solver.Options{Seed: 5})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	second, err := New().Solve(context.Background(), g, solver.Options{Seed: 5})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	if len(first.LeafOrder) != len(second.LeafOrder) {
		t.Fatalf("leaf order lengths differ: %v vs %v", first.LeafOrder, second.LeafOrder)
	}
	for i := range first.LeafOrder {
		if first.LeafOrder[i] != second.LeafOrder[i] {
			t.Errorf("run 1 and run 2 diverge at index %d: %q vs %q", i, first.LeafOrder[i], second.LeafOrder[i])
		}
	}
}

func TestSolveEmptyGraph(t *testing.T) {
	g := hierarchy.New()
	result, err := New().Solve(context.Background(), g, solver.Options{})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if len(result.LeafOrder) != 0 {
		t.Errorf("LeafOrder = %v, want empty", result.LeafOrder)
	}
}

func TestSolveRespectsContextCancellation(t *testing.T) {
	g := buildTestGraph(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().Solve(ctx, g, solver.Options{Seed: 1})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if len(result.LeafOrder) != 4 {
		t.Errorf("LeafOrder = %v, want 4 leaves even on early cancellation", result.LeafOrder)
	}
}

func TestBuildInitialLayoutRespectsTreeOrder(t *testing.T) {
	g := buildTestGraph(t)
	order := buildInitialLayout(g)
	pos := hierarchy.PosMap(order)

	for _, e := range g.TopEdges() {
		if pos[e.U] >= pos[e.V] {
			t.Errorf("parent %q does not precede child %q in initial layout", e.U, e.V)
		}
	}
}
