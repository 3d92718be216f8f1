// Package heuristic implements the planar local-search ordering solver: a
// deterministic DFS initial layout refined by sibling-group reordering
// using barycenter, connectivity, reversal, block-inversion, and bounded
// random-restart candidates, mirroring a reference Python implementation's
// build_initial_layout / swap_adjacent_siblings_fast approach.
package heuristic

import (
	"context"
	"math/rand"
	"sort"

	"github.com/hierarchytrix/solver/pkg/errors"
	"github.com/hierarchytrix/solver/pkg/hierarchy"
	"github.com/hierarchytrix/solver/pkg/hierarchy/perm"
	"github.com/hierarchytrix/solver/pkg/solver"
)

// Solver is the heuristic ordering solver.
type Solver struct {
	// MaxPasses bounds how many full sibling-group refinement sweeps run
	// before returning, even if improvements are still being found. Zero
	// uses DefaultMaxPasses.
	MaxPasses int
}

var _ solver.Solver = (*Solver)(nil)

// DefaultMaxPasses bounds the refinement loop absent an explicit
// Solver.MaxPasses.
const DefaultMaxPasses = 25

// New creates a heuristic Solver with default settings.
func New() *Solver { return &Solver{} }

// Solve computes a planar leaf order via DFS initialization and
// sibling-group local search.
func (s *Solver) Solve(ctx context.Context, g *hierarchy.Graph, opts solver.Options) (solver.Result, error) {
	if g == nil {
		return solver.Result{}, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	if g.NodeCount() == 0 {
		return solver.Result{Status: solver.StatusOptimal}, nil
	}

	order := buildInitialLayout(g)
	bottomEdges := g.BottomEdges()
	topEdges := g.TopEdges()

	ws := hierarchy.NewCrossingWorkspace(len(bottomEdges))
	rng := rand.New(rand.NewSource(opts.Seed))

	maxPasses := s.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	current := hierarchy.CountCrossings(hierarchy.PosMap(order), bottomEdges)
	if opts.Progress != nil {
		opts.Progress(current)
	}

	for pass := 0; pass < maxPasses; pass++ {
		select {
		case <-ctx.Done():
			return finish(g, order, current), nil
		default:
		}

		groups := prioritizedSiblingGroups(g, order, bottomEdges, ws)
		improved := false

		for _, group := range groups {
			if ctx.Err() != nil {
				return finish(g, order, current), nil
			}
			newOrder, newCrossings, ok := refineGroup(g, order, group, bottomEdges, topEdges, ws, rng, current)
			if ok {
				order = newOrder
				current = newCrossings
				improved = true
				if opts.Progress != nil {
					opts.Progress(current)
				}
			}
		}

		if !improved {
			break
		}
	}

	return finish(g, order, current), nil
}

func finish(g *hierarchy.Graph, order []string, crossings int) solver.Result {
	leaves := make([]string, 0, len(order))
	for _, id := range order {
		if g.IsLeaf(id) {
			leaves = append(leaves, id)
		}
	}
	return solver.Result{
		LeafOrder: leaves,
		Status:    solver.StatusFeasible,
		Crossings: crossings,
	}
}

// buildInitialLayout produces a DFS order from the root(s), visiting
// id-sorted children, satisfying invariants I1 and I2 by construction. It
// returns the full order, including cluster nodes, because crossing counts
// against top edges need cluster endpoints; only finish filters the order
// down to the leaf ids that callers of Solve receive.
func buildInitialLayout(g *hierarchy.Graph) []string {
	var order []string
	visited := make(map[string]bool)

	var dfs func(string)
	dfs = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		order = append(order, id)
		children := append([]string(nil), g.Children(id)...)
		sort.Strings(children)
		for _, c := range children {
			dfs(c)
		}
	}

	if root := g.Root(); root != "" {
		dfs(root)
	}
	for _, id := range g.Nodes() {
		if !visited[id] {
			dfs(id)
		}
	}
	return order
}

// siblingGroupCrossings is a (parentID, crossings-involved) pair used to
// prioritize which sibling group to refine next.
type siblingGroupCrossings struct {
	parent    string
	crossings int
}

// prioritizedSiblingGroups ranks multi-child parents by how many bottom
// crossings currently involve an edge incident to one of their children,
// most-problematic first, mirroring find_problematic_sibling_groups's top_n
// prioritization.
func prioritizedSiblingGroups(g *hierarchy.Graph, order []string, edges []hierarchy.Edge, ws *hierarchy.CrossingWorkspace) []string {
	groups := g.SiblingGroups()
	pos := hierarchy.PosMap(order)

	scored := make([]siblingGroupCrossings, 0, len(groups))
	for parent, children := range groups {
		scored = append(scored, siblingGroupCrossings{parent: parent, crossings: subtreeCrossings(children, pos, edges)})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].crossings != scored[j].crossings {
			return scored[i].crossings > scored[j].crossings
		}
		return scored[i].parent < scored[j].parent
	})

	result := make([]string, len(scored))
	for i, sc := range scored {
		result[i] = sc.parent
	}
	return result
}

func subtreeCrossings(members []string, pos map[string]int, edges []hierarchy.Edge) int {
	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}
	// Crossings among all edges minus crossings among edges not touching
	// the group leaves the crossing pairs with at least one incident edge.
	var untouched []hierarchy.Edge
	for _, e := range edges {
		if !memberSet[e.U] && !memberSet[e.V] {
			untouched = append(untouched, e)
		}
	}
	return hierarchy.CountCrossings(pos, edges) - hierarchy.CountCrossings(pos, untouched)
}

// refineGroup tries every candidate ordering of parent's direct children
// (keeping each child's own subtree contiguous and internally unchanged)
// and accepts the first strictly-improving, planarity-preserving
// candidate found, matching the "accept only if improving and planar"
// policy of the reference heuristic.
func refineGroup(
	g *hierarchy.Graph,
	order []string,
	parent string,
	bottomEdges, topEdges []hierarchy.Edge,
	ws *hierarchy.CrossingWorkspace,
	rng *rand.Rand,
	currentBest int,
) ([]string, int, bool) {
	children := g.Children(parent)
	if len(children) < 2 {
		return nil, 0, false
	}

	blockStart, blocks := extractChildBlocks(g, order, children)

	for _, candidate := range candidateOrders(children, bottomEdges, order, rng) {
		newOrder := spliceBlocks(order, blockStart, blocks, candidate)
		pos := hierarchy.PosMap(newOrder)
		if !hierarchy.IsPlanar(pos, topEdges) {
			continue
		}
		crossings := ws.CountCrossings(pos, bottomEdges)
		if crossings < currentBest {
			return newOrder, crossings, true
		}
	}
	return nil, 0, false
}

// extractChildBlocks locates, for each of parent's children, its
// contiguous block (the child plus its full descendant subtree) within
// order, and returns the position where the first child's block starts.
func extractChildBlocks(g *hierarchy.Graph, order []string, children []string) (int, map[string][]string) {
	pos := hierarchy.PosMap(order)
	blocks := make(map[string][]string, len(children))
	for _, c := range children {
		block := append([]string{c}, g.Descendants(c)...)
		sort.Slice(block, func(i, j int) bool { return pos[block[i]] < pos[block[j]] })
		blocks[c] = block
	}
	start := len(order)
	for _, block := range blocks {
		if len(block) > 0 && pos[block[0]] < start {
			start = pos[block[0]]
		}
	}
	return start, blocks
}

// spliceBlocks rebuilds order with parent's children's blocks placed
// consecutively, starting at blockStart, in the sequence given by
// childOrder. Everything outside the union of blocks keeps its relative
// order.
func spliceBlocks(order []string, blockStart int, blocks map[string][]string, childOrder []string) []string {
	inBlocks := make(map[string]bool)
	for _, block := range blocks {
		for _, id := range block {
			inBlocks[id] = true
		}
	}

	result := make([]string, 0, len(order))
	inserted := false
	for _, id := range order {
		if inBlocks[id] {
			if !inserted {
				for _, c := range childOrder {
					result = append(result, blocks[c]...)
				}
				inserted = true
			}
			continue
		}
		result = append(result, id)
	}
	if !inserted {
		for _, c := range childOrder {
			result = append(result, blocks[c]...)
		}
	}
	return result
}

// candidateOrders generates candidate child orderings using the
// strategies listed for sibling-group refinement: barycenter,
// connectivity, full reversal, local block inversions, and a bounded
// number of random permutations for small groups.
func candidateOrders(children []string, bottomEdges []hierarchy.Edge, order []string, rng *rand.Rand) [][]string {
	pos := hierarchy.PosMap(order)
	var candidates [][]string

	candidates = append(candidates, barycenterOrder(children, bottomEdges, pos))
	candidates = append(candidates, connectivityOrder(children, bottomEdges))

	reversed := append([]string(nil), children...)
	reverse(reversed)
	candidates = append(candidates, reversed)

	candidates = append(candidates, blockInversions(children)...)

	if len(children) <= 6 {
		for i := 0; i < 5; i++ {
			candidates = append(candidates, randomOrder(children, rng))
		}
	}

	if len(children) <= 8 {
		candidates = append(candidates, pqTreeCandidates(children, bottomEdges)...)
	}

	return candidates
}

// barycenterOrder sorts children by the mean position of their connected
// bottom-edge neighbors, falling back to current position when a child
// has no bottom-edge neighbors at all.
func barycenterOrder(children []string, edges []hierarchy.Edge, pos map[string]int) []string {
	childSet := make(map[string]bool, len(children))
	for _, c := range children {
		childSet[c] = true
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, e := range edges {
		if childSet[e.U] {
			sums[e.U] += float64(pos[e.V])
			counts[e.U]++
		}
		if childSet[e.V] {
			sums[e.V] += float64(pos[e.U])
			counts[e.V]++
		}
	}

	result := append([]string(nil), children...)
	sort.SliceStable(result, func(i, j int) bool {
		return barycenter(result[i], sums, counts, pos) < barycenter(result[j], sums, counts, pos)
	})
	return result
}

func barycenter(id string, sums map[string]float64, counts map[string]int, pos map[string]int) float64 {
	if counts[id] == 0 {
		return float64(pos[id])
	}
	return sums[id] / float64(counts[id])
}

// connectivityOrder sorts children by descending bottom-edge degree.
func connectivityOrder(children []string, edges []hierarchy.Edge) []string {
	degree := make(map[string]int, len(children))
	for _, e := range edges {
		degree[e.U]++
		degree[e.V]++
	}
	result := append([]string(nil), children...)
	sort.SliceStable(result, func(i, j int) bool { return degree[result[i]] > degree[result[j]] })
	return result
}

// blockInversions reverses contiguous sub-blocks of length 2..4 within
// children, one candidate per block position/length.
func blockInversions(children []string) [][]string {
	var out [][]string
	n := len(children)
	for length := 2; length <= 4 && length <= n; length++ {
		for start := 0; start+length <= n; start++ {
			cand := append([]string(nil), children...)
			reverseRange(cand, start, start+length-1)
			out = append(out, cand)
		}
	}
	return out
}

func randomOrder(children []string, rng *rand.Rand) []string {
	cand := append([]string(nil), children...)
	rng.Shuffle(len(cand), func(i, j int) { cand[i], cand[j] = cand[j], cand[i] })
	return cand
}

// pqTreeCandidates enumerates a handful of additional candidates via a
// PQ-tree constrained only by "no constraint yet applied" (i.e. the full
// n! space), used as one more source of structured candidates for small
// groups rather than the exhaustive driver it would be for a full search.
func pqTreeCandidates(children []string, _ []hierarchy.Edge) [][]string {
	tree := perm.NewPQTree(len(children))
	perms := tree.Enumerate(20)
	out := make([][]string, 0, len(perms))
	for _, p := range perms {
		cand := make([]string, len(children))
		for i, idx := range p {
			cand[i] = children[idx]
		}
		out = append(out, cand)
	}
	return out
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseRange(s []string, i, j int) {
	for i < j {
		s[i], s[j] = s[j], s[i]
		i++
		j--
	}
}
