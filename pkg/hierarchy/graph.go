// Package hierarchy models a rooted cluster hierarchy together with a set
// of non-tree "bottom" edges between its leaves, and provides the graph
// operations the ordering solvers build on.
package hierarchy

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownParent is returned by [Graph.AddNode] when Parent references
	// a node that has not been added yet, or by [Graph.Validate] when a
	// parent reference dangles.
	ErrUnknownParent = errors.New("unknown parent node")

	// ErrMultipleRoots is returned by [Graph.Validate] when more than one
	// node has an empty Parent.
	ErrMultipleRoots = errors.New("graph has more than one root")

	// ErrNoRoot is returned by [Graph.Validate] when no node has an empty
	// Parent.
	ErrNoRoot = errors.New("graph has no root")

	// ErrParentCycle is returned by [Graph.Validate] when following Parent
	// links from some node never reaches the root.
	ErrParentCycle = errors.New("parent links form a cycle")

	// ErrEmptyCluster is returned by [Graph.Validate] when a non-leaf node
	// has no children.
	ErrEmptyCluster = errors.New("cluster node has no children")

	// ErrUnknownEdgeEndpoint is returned by [Graph.AddBottomEdge] when an
	// endpoint does not reference an existing node.
	ErrUnknownEdgeEndpoint = errors.New("unknown bottom edge endpoint")

	// ErrSelfLoop is returned by [Graph.AddBottomEdge] when both endpoints
	// are the same node.
	ErrSelfLoop = errors.New("bottom edge endpoints must differ")
)

// Metadata stores arbitrary key-value pairs attached to a node. Metadata
// maps are never nil - they are initialized to empty maps when needed.
type Metadata map[string]any

// Kind records the declared role of a node in the input document. Kind is
// informational only: leafness is always derived from the absence of
// children, never trusted from the input (see [Graph.IsLeaf]).
type Kind int

const (
	KindNode Kind = iota
	KindRoot
	KindCluster
	KindLeaf
)

// Node is a vertex of the hierarchy tree.
type Node struct {
	ID     string
	Parent string // empty for the root
	Kind   Kind
	Meta   Metadata
}

// Edge is an unordered bottom-page edge between two leaves.
type Edge struct {
	U, V string
	Meta Metadata
}

// Graph is an immutable-after-construction rooted cluster hierarchy plus
// its bottom edges. The zero value is not usable; use [New].
//
// Graph is not safe for concurrent use during construction. Once built and
// validated, read operations are safe to call concurrently.
type Graph struct {
	nodes    map[string]*Node
	children map[string][]string // parent ID -> child IDs, insertion order
	order    []string            // node insertion order
	edges    []Edge
	rootID   string
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Returns [ErrInvalidNodeID] if ID is
// empty, [ErrDuplicateNodeID] if the ID is already present, or
// [ErrUnknownParent] if Parent is non-empty and not yet in the graph. The
// node's Meta is initialized to an empty map if nil.
//
// Nodes must be added in an order where every parent precedes its
// children (true of any top-down or breadth-first traversal of the source
// document).
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Parent != "" {
		if _, ok := g.nodes[n.Parent]; !ok {
			return ErrUnknownParent
		}
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	if node.Parent == "" {
		g.rootID = node.ID
	} else {
		g.children[node.Parent] = append(g.children[node.Parent], node.ID)
	}
	return nil
}

// AddBottomEdge adds an unordered non-tree edge between u and v. Returns
// [ErrUnknownEdgeEndpoint] if either endpoint is missing, or [ErrSelfLoop]
// if u == v. Duplicate edges and edges between non-leaf nodes are allowed
// by this method; [Graph.Validate] does not currently reject them, since
// the base specification defines bottom edges only over arbitrary node
// pairs and leaves stricter leaf-only enforcement to callers that need it.
func (g *Graph) AddBottomEdge(u, v string, meta Metadata) error {
	if _, ok := g.nodes[u]; !ok {
		return ErrUnknownEdgeEndpoint
	}
	if _, ok := g.nodes[v]; !ok {
		return ErrUnknownEdgeEndpoint
	}
	if u == v {
		return ErrSelfLoop
	}
	if meta == nil {
		meta = Metadata{}
	}
	g.edges = append(g.edges, Edge{U: u, V: v, Meta: meta})
	return nil
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Root returns the root node's ID, or "" if the graph is empty.
func (g *Graph) Root() string { return g.rootID }

// Parent returns id's parent, or "" for the root or an unknown node.
func (g *Graph) Parent(id string) string {
	if n, ok := g.nodes[id]; ok {
		return n.Parent
	}
	return ""
}

// Children returns the IDs of id's direct children in insertion order. The
// returned slice must not be modified.
func (g *Graph) Children(id string) []string { return g.children[id] }

// IsLeaf reports whether id has no children. Leafness is always derived
// from graph structure, never from the declared [Kind].
func (g *Graph) IsLeaf(id string) bool { return len(g.children[id]) == 0 }

// Leaves returns the IDs of all leaf nodes, in node-insertion order.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, id := range g.order {
		if g.IsLeaf(id) {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// TopEdges returns one parent->child Edge per non-root node, in
// node-insertion order.
func (g *Graph) TopEdges() []Edge {
	edges := make([]Edge, 0, len(g.nodes))
	for _, id := range g.order {
		if p := g.nodes[id].Parent; p != "" {
			edges = append(edges, Edge{U: p, V: id})
		}
	}
	return edges
}

// BottomEdges returns a copy of all bottom (non-tree) edges in insertion
// order.
func (g *Graph) BottomEdges() []Edge { return slices.Clone(g.edges) }

// Descendants returns all descendant IDs of id (not including id itself),
// via a depth-first traversal in child-insertion order.
func (g *Graph) Descendants(id string) []string {
	var out []string
	var walk func(string)
	walk = func(cur string) {
		for _, c := range g.children[cur] {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// Validate checks the structural invariants every hierarchy must satisfy:
// exactly one root, no dangling parent references, no parent cycles, no
// cluster or root node declared with zero children, and no bottom edge
// referencing an unknown node.
func (g *Graph) Validate() error {
	if err := g.validateRoot(); err != nil {
		return err
	}
	if err := g.validateNoCycles(); err != nil {
		return err
	}
	if err := g.validateNoEmptyClusters(); err != nil {
		return err
	}
	return g.validateEdgeEndpoints()
}

func (g *Graph) validateRoot() error {
	roots := 0
	for _, n := range g.nodes {
		if n.Parent == "" {
			roots++
		}
	}
	switch {
	case len(g.nodes) == 0:
		return nil
	case roots == 0:
		return ErrNoRoot
	case roots > 1:
		return ErrMultipleRoots
	}
	return nil
}

func (g *Graph) validateNoCycles() error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(g.nodes))

	for id, n := range g.nodes {
		if n.Parent != "" {
			if _, ok := g.nodes[n.Parent]; !ok {
				return ErrUnknownParent
			}
		}
		color[id] = white
	}

	for id := range g.nodes {
		cur := id
		for color[cur] == white {
			color[cur] = gray
			p := g.nodes[cur].Parent
			if p == "" {
				break
			}
			if color[p] == gray {
				return ErrParentCycle
			}
			cur = p
		}
		for n := id; n != "" && color[n] == gray; n = g.nodes[n].Parent {
			color[n] = black
		}
	}
	return nil
}

func (g *Graph) validateNoEmptyClusters() error {
	for _, id := range g.order {
		n := g.nodes[id]
		if (n.Kind == KindCluster || n.Kind == KindRoot) && len(g.children[id]) == 0 {
			return ErrEmptyCluster
		}
	}
	return nil
}

func (g *Graph) validateEdgeEndpoints() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.U]; !ok {
			return ErrUnknownEdgeEndpoint
		}
		if _, ok := g.nodes[e.V]; !ok {
			return ErrUnknownEdgeEndpoint
		}
	}
	return nil
}

// PosMap creates a position lookup map from a slice of node IDs, mapping
// each ID to its index in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// SiblingGroups returns, for every node with 2 or more children, that
// node's ID mapped to its children slice. The returned map's iteration
// order is not meaningful; callers needing deterministic order should sort
// the keys (e.g. via [maps.Keys] + [slices.Sort]).
func (g *Graph) SiblingGroups() map[string][]string {
	groups := make(map[string][]string)
	for id, kids := range g.children {
		if len(kids) >= 2 {
			groups[id] = slices.Clone(kids)
		}
	}
	return groups
}

// sortedParentIDs returns parent IDs (nodes with >=1 children) in a
// deterministic order derived from node-insertion order.
func (g *Graph) sortedParentIDs() []string {
	var ids []string
	for _, id := range g.order {
		if len(g.children[id]) > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
