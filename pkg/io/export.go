package io

import (
	"encoding/json"
	"fmt"
	goio "io"
	"os"

	"github.com/hierarchytrix/solver/pkg/hierarchy"
)

var kindToString = map[hierarchy.Kind]string{
	hierarchy.KindRoot:    "root",
	hierarchy.KindCluster: "cluster",
	hierarchy.KindLeaf:    "leaf",
	hierarchy.KindNode:    "node",
}

// document is the on-disk JSON shape of a graph file.
type document struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID     string         `json:"id"`
	Parent *string        `json:"parent"`
	Type   string         `json:"type,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

type jsonEdge struct {
	Source string         `json:"source"`
	Target string         `json:"target"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// WriteJSON encodes a [hierarchy.Graph] as JSON and writes it to w.
//
// The output is a JSON object with "nodes" and "edges" arrays, formatted
// with 2-space indentation. Nodes are written in their original insertion
// order with:
//   - id: always present
//   - parent: the parent's id, or null for the root
//   - type: included only for non-default kinds (root, cluster, leaf)
//   - meta: included if non-empty
//
// Edges are written as {source, target} pairs in insertion order.
//
// The output can be read back with [ReadJSON] to produce an identical
// graph. WriteJSON does not re-validate g; a graph already known to be
// malformed is encoded as-is.
func WriteJSON(g *hierarchy.Graph, w goio.Writer) error {
	ids := g.Nodes()
	edges := g.BottomEdges()

	out := document{
		Nodes: make([]jsonNode, len(ids)),
		Edges: make([]jsonEdge, len(edges)),
	}

	for i, id := range ids {
		n, _ := g.Node(id)
		jn := jsonNode{ID: n.ID, Meta: map[string]any(n.Meta)}
		if n.Parent != "" {
			parent := n.Parent
			jn.Parent = &parent
		}
		if s, ok := kindToString[n.Kind]; ok && n.Kind != hierarchy.KindNode {
			jn.Type = s
		}
		out.Nodes[i] = jn
	}
	for i, e := range edges {
		out.Edges[i] = jsonEdge{Source: e.U, Target: e.V, Meta: map[string]any(e.Meta)}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a [hierarchy.Graph] to a JSON file at path.
//
// ExportJSON creates (or truncates) the file at path and writes the JSON
// representation of g using [WriteJSON]. The file is created with 0644
// permissions. If the file cannot be created or writing fails, ExportJSON
// returns an error wrapping the underlying cause with the file path for
// context.
func ExportJSON(g *hierarchy.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
