package visualize

import (
	"strings"
	"testing"

	"github.com/hierarchytrix/solver/pkg/hierarchy"
)

func buildSampleGraph(t *testing.T) *hierarchy.Graph {
	t.Helper()
	g := hierarchy.New()
	for _, n := range []hierarchy.Node{
		{ID: "root"},
		{ID: "a", Parent: "root"},
		{ID: "a1", Parent: "a"},
		{ID: "a2", Parent: "a"},
		{ID: "b1", Parent: "root"},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	if err := g.AddBottomEdge("a1", "b1", nil); err != nil {
		t.Fatalf("AddBottomEdge: %v", err)
	}
	return g
}

func TestToDOTIncludesClustersAndBottomEdges(t *testing.T) {
	g := buildSampleGraph(t)
	dot := ToDOT(g, nil)

	if !strings.Contains(dot, "subgraph cluster_a") {
		t.Error("ToDOT() should emit a cluster subgraph for node \"a\"")
	}
	if !strings.Contains(dot, `"a1" -> "b1"`) {
		t.Error("ToDOT() should draw the bottom edge a1-b1")
	}
	if !strings.Contains(dot, `"root" -> "a"`) {
		t.Error("ToDOT() should draw the tree edge root->a")
	}
}

func TestToDOTWithOrderAddsRankChain(t *testing.T) {
	g := buildSampleGraph(t)
	dot := ToDOT(g, []string{"a1", "a2", "b1"})

	if !strings.Contains(dot, "rank=same") {
		t.Error("ToDOT() with an order should add a rank=same constraint")
	}
	if !strings.Contains(dot, `"a1" -> "a2" [style=invis`) {
		t.Error("ToDOT() with an order should chain consecutive leaves invisibly")
	}
}

func TestSanitizeID(t *testing.T) {
	if got := sanitizeID("a-b.c"); got != "a_b_c" {
		t.Errorf("sanitizeID() = %q, want %q", got, "a_b_c")
	}
}
