package hybrid

import (
	"context"
	"testing"

	"github.com/hierarchytrix/solver/pkg/hierarchy"
	"github.com/hierarchytrix/solver/pkg/solver"
	"github.com/hierarchytrix/solver/pkg/solver/mip"
	"github.com/hierarchytrix/solver/pkg/solver/mip/miptest"
)

func fakeEngine() mip.Model { return miptest.New() }

func buildDirectLeafClusterGraph(t *testing.T) *hierarchy.Graph {
	t.Helper()
	g := hierarchy.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("build graph: %v", err)
		}
	}
	must(g.AddNode(hierarchy.Node{ID: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "group", Parent: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "x1", Parent: "group"}))
	must(g.AddNode(hierarchy.Node{ID: "x2", Parent: "group"}))
	must(g.AddNode(hierarchy.Node{ID: "x3", Parent: "group"}))
	must(g.AddNode(hierarchy.Node{ID: "y1", Parent: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "y2", Parent: "root"}))
	must(g.AddBottomEdge("x1", "y2", nil))
	must(g.AddBottomEdge("x2", "y1", nil))
	must(g.AddBottomEdge("x3", "y1", nil))
	return g
}

func TestSolveNeverRegressesRelativeToHeuristic(t *testing.T) {
	g := buildDirectLeafClusterGraph(t)

	base, err := New(nil).Solve(context.Background(), g, solver.Options{Seed: 3})
	if err != nil {
		t.Fatalf("heuristic-only Solve() error = %v", err)
	}

	hy, err := New(fakeEngine).Solve(context.Background(), g, solver.Options{Seed: 3})
	if err != nil {
		t.Fatalf("hybrid Solve() error = %v", err)
	}

	if hy.Crossings > base.Crossings {
		t.Errorf("hybrid crossings %d regressed past heuristic crossings %d", hy.Crossings, base.Crossings)
	}
}

func TestSolvePreservesLeafSet(t *testing.T) {
	g := buildDirectLeafClusterGraph(t)
	result, err := New(fakeEngine).Solve(context.Background(), g, solver.Options{Seed: 9})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	want := map[string]bool{"x1": true, "x2": true, "x3": true, "y1": true, "y2": true}
	if len(result.LeafOrder) != len(want) {
		t.Fatalf("LeafOrder = %v, want %d leaves", result.LeafOrder, len(want))
	}
	seen := make(map[string]bool)
	for _, id := range result.LeafOrder {
		if !want[id] {
			t.Errorf("LeafOrder contains unexpected id %q", id)
		}
		if seen[id] {
			t.Errorf("LeafOrder contains duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestDirectLeafClusters(t *testing.T) {
	g := buildDirectLeafClusterGraph(t)
	clusters := directLeafClusters(g)

	if len(clusters) != 1 || clusters[0] != "group" {
		t.Errorf("directLeafClusters() = %v, want [group]", clusters)
	}
}

// TestRestrictedReoptimizeHandlesInternalBottomEdge is a regression test
// for a bottom edge entirely internal to a cluster's direct-leaf block
// (both endpoints are children of the same parent): before the mixed
// internal/external gadget was added, such edges were dropped from the
// restricted objective entirely and could never be resolved by the
// restricted ILP.
func TestRestrictedReoptimizeHandlesInternalBottomEdge(t *testing.T) {
	g := hierarchy.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("build graph: %v", err)
		}
	}
	must(g.AddNode(hierarchy.Node{ID: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "d1", Parent: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "group", Parent: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "c1", Parent: "group"}))
	must(g.AddNode(hierarchy.Node{ID: "c2", Parent: "group"}))
	must(g.AddNode(hierarchy.Node{ID: "c3", Parent: "group"}))
	must(g.AddNode(hierarchy.Node{ID: "d2", Parent: "root"}))
	must(g.AddBottomEdge("c1", "c3", nil)) // internal to the block
	must(g.AddBottomEdge("c2", "d1", nil)) // one child, one external neighbor

	order := []string{"root", "d1", "c1", "c2", "c3", "d2", "group"}
	bottomEdges := g.BottomEdges()
	before := hierarchy.CountCrossings(hierarchy.PosMap(order), bottomEdges)
	if before == 0 {
		t.Fatalf("test setup: initial order should already have a crossing, got 0")
	}

	newOrder, newCrossings, ok := restrictedReoptimize(fakeEngine(), g, order, "group", bottomEdges, solver.Options{})
	if !ok {
		t.Fatalf("restrictedReoptimize() ok = false, want true")
	}
	if newCrossings != 0 {
		t.Errorf("newCrossings = %d, want 0", newCrossings)
	}
	if got := hierarchy.CountCrossings(hierarchy.PosMap(newOrder), bottomEdges); got != newCrossings {
		t.Errorf("recounted crossings = %d, want %d (matching reported newCrossings)", got, newCrossings)
	}
}

// TestRestrictedReoptimizeHandlesMultipleExternalNeighbors is a
// regression test for a block child with more than one external
// bottom-edge neighbor: before this was fixed, a later neighbor
// overwrote an earlier one in a per-child map, silently dropping the
// earlier edge's constraint from the restricted objective.
func TestRestrictedReoptimizeHandlesMultipleExternalNeighbors(t *testing.T) {
	g := hierarchy.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("build graph: %v", err)
		}
	}
	must(g.AddNode(hierarchy.Node{ID: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "d1", Parent: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "d3", Parent: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "group", Parent: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "c1", Parent: "group"}))
	must(g.AddNode(hierarchy.Node{ID: "c2", Parent: "group"}))
	must(g.AddNode(hierarchy.Node{ID: "d2", Parent: "root"}))
	must(g.AddBottomEdge("c1", "d1", nil)) // c1's first external neighbor, before the block
	must(g.AddBottomEdge("c1", "d2", nil)) // c1's second external neighbor, after the block
	must(g.AddBottomEdge("c2", "d3", nil)) // c2's only external neighbor, before the block

	order := []string{"root", "d1", "d3", "c1", "c2", "d2", "group"}
	bottomEdges := g.BottomEdges()
	before := hierarchy.CountCrossings(hierarchy.PosMap(order), bottomEdges)
	if before == 0 {
		t.Fatalf("test setup: initial order should already have crossings, got 0")
	}

	newOrder, newCrossings, ok := restrictedReoptimize(fakeEngine(), g, order, "group", bottomEdges, solver.Options{})
	if !ok {
		t.Fatalf("restrictedReoptimize() ok = false, want true")
	}
	if newCrossings != 0 {
		t.Errorf("newCrossings = %d, want 0 (both of c1's external edges must be enforced)", newCrossings)
	}
	if got := hierarchy.CountCrossings(hierarchy.PosMap(newOrder), bottomEdges); got != newCrossings {
		t.Errorf("recounted crossings = %d, want %d (matching reported newCrossings)", got, newCrossings)
	}
}

// TestRestrictedReoptimizeHandlesTwoInternalEdges is a regression test
// for two bottom edges both entirely internal to the block, exercising
// the full eight-inequality crossing gadget on the block's own local
// ordering variables.
func TestRestrictedReoptimizeHandlesTwoInternalEdges(t *testing.T) {
	g := hierarchy.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("build graph: %v", err)
		}
	}
	must(g.AddNode(hierarchy.Node{ID: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "group", Parent: "root"}))
	must(g.AddNode(hierarchy.Node{ID: "c1", Parent: "group"}))
	must(g.AddNode(hierarchy.Node{ID: "c2", Parent: "group"}))
	must(g.AddNode(hierarchy.Node{ID: "c3", Parent: "group"}))
	must(g.AddNode(hierarchy.Node{ID: "c4", Parent: "group"}))
	must(g.AddBottomEdge("c1", "c3", nil))
	must(g.AddBottomEdge("c2", "c4", nil))

	order := []string{"root", "c1", "c2", "c3", "c4", "group"}
	bottomEdges := g.BottomEdges()
	before := hierarchy.CountCrossings(hierarchy.PosMap(order), bottomEdges)
	if before == 0 {
		t.Fatalf("test setup: initial order should already have a crossing, got 0")
	}

	newOrder, newCrossings, ok := restrictedReoptimize(fakeEngine(), g, order, "group", bottomEdges, solver.Options{})
	if !ok {
		t.Fatalf("restrictedReoptimize() ok = false, want true")
	}
	if newCrossings != 0 {
		t.Errorf("newCrossings = %d, want 0", newCrossings)
	}
	if got := hierarchy.CountCrossings(hierarchy.PosMap(newOrder), bottomEdges); got != newCrossings {
		t.Errorf("recounted crossings = %d, want %d (matching reported newCrossings)", got, newCrossings)
	}
}

func TestSolveWithNilEngineFallsBackToHeuristic(t *testing.T) {
	g := buildDirectLeafClusterGraph(t)
	s := New(nil)

	result, err := s.Solve(context.Background(), g, solver.Options{Seed: 1})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if result.Status == solver.StatusUnsolvable {
		t.Fatalf("Solve() with nil engine returned unsolvable")
	}
}
