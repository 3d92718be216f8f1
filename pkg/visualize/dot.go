package visualize

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/hierarchytrix/solver/pkg/hierarchy"
)

// ToDOT converts a hierarchy graph to Graphviz DOT format. Each cluster
// node becomes a nested `subgraph cluster_*`, visually reflecting the
// top-page tree; bottom edges are drawn as dashed, non-constraining
// arcs. If order has two or more ids, an invisible rank=same chain is added so
// Graphviz lays the leaves out left-to-right in that order, making the
// computed leaf ordering visually inspectable.
func ToDOT(g *hierarchy.Graph, order []string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n\n")

	if root := g.Root(); root != "" {
		writeSubtree(&buf, g, root)
	}

	buf.WriteString("\n")
	for _, e := range g.BottomEdges() {
		fmt.Fprintf(&buf, "  %q -> %q [dir=none, style=dashed, color=%q, constraint=false];\n", e.U, e.V, "crimson")
	}

	if len(order) > 1 {
		buf.WriteString("\n  { rank=same; ")
		for _, id := range order {
			fmt.Fprintf(&buf, "%q; ", id)
		}
		buf.WriteString("}\n")
		for i := 0; i+1 < len(order); i++ {
			fmt.Fprintf(&buf, "  %q -> %q [style=invis, weight=100];\n", order[i], order[i+1])
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeSubtree(buf *bytes.Buffer, g *hierarchy.Graph, id string) {
	children := g.Children(id)
	if len(children) == 0 {
		fmt.Fprintf(buf, "  %q [label=%q];\n", id, id)
		return
	}

	fmt.Fprintf(buf, "  subgraph cluster_%s {\n", sanitizeID(id))
	fmt.Fprintf(buf, "    label=%q;\n    style=rounded;\n    color=gray;\n", id)
	for _, c := range children {
		writeSubtree(buf, g, c)
	}
	buf.WriteString("  }\n")
	for _, c := range children {
		fmt.Fprintf(buf, "  %q -> %q;\n", id, c)
	}
}

var nonIdentRe = regexp.MustCompile(`[^A-Za-z0-9_]`)

func sanitizeID(id string) string {
	return nonIdentRe.ReplaceAllString(id, "_")
}
