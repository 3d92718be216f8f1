package io

import (
	"encoding/json"
	"fmt"
	goio "io"
	"os"

	"github.com/hierarchytrix/solver/pkg/hierarchy"
)

var kindFromString = map[string]hierarchy.Kind{
	"root":    hierarchy.KindRoot,
	"cluster": hierarchy.KindCluster,
	"leaf":    hierarchy.KindLeaf,
	"node":    hierarchy.KindNode,
}

// ReadJSON decodes a JSON graph document from r into a [hierarchy.Graph].
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a", "parent": null, "type": "root"},
//	            {"id": "b", "parent": "a", "type": "leaf"}],
//	  "edges": [{"source": "a", "target": "b"}]
//	}
//
// Each node must have an "id" field. Optional fields:
//   - parent: the parent node's id, omitted or null for the root
//   - type: "root", "cluster", "leaf", or "node" (defaults to "node")
//   - meta: object with arbitrary key-value pairs
//
// Each edge must have "source" and "target" fields that reference node
// ids. Edges are non-tree "bottom" edges; the tree structure is carried
// entirely by each node's "parent" field.
//
// ReadJSON returns an error if the JSON is malformed, a node has a
// duplicate id, an edge references an unknown node id, or the resulting
// graph fails [hierarchy.Graph.Validate] (dangling parent, parent cycle,
// empty cluster, multiple or missing roots).
//
// The returned Graph is independent of r and can be used safely after
// ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r goio.Reader) (*hierarchy.Graph, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := hierarchy.New()
	for _, n := range data.Nodes {
		node := hierarchy.Node{ID: n.ID, Meta: hierarchy.Metadata(n.Meta)}
		if n.Parent != nil {
			node.Parent = *n.Parent
		}
		if k, ok := kindFromString[n.Type]; ok {
			node.Kind = k
		}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddBottomEdge(e.Source, e.Target, hierarchy.Metadata(e.Meta)); err != nil {
			return nil, fmt.Errorf("edge %s-%s: %w", e.Source, e.Target, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	return g, nil
}

// ImportJSON reads a graph document at path and returns the decoded
// [hierarchy.Graph].
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. If the file cannot be opened or decoding fails, ImportJSON returns
// an error wrapping the underlying cause with the file path for context.
func ImportJSON(path string) (*hierarchy.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
