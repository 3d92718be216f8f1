// Package ilp implements the exact leaf-ordering solver: a binary integer
// program whose ordering variables, transitivity constraints, and
// crossing-detection gadget mirror a reference Gurobi/networkx
// implementation, translated onto the [mip.Model] capability interface.
package ilp

import (
	"context"
	"runtime"
	"sort"

	"github.com/hierarchytrix/solver/pkg/errors"
	"github.com/hierarchytrix/solver/pkg/hierarchy"
	"github.com/hierarchytrix/solver/pkg/solver"
	"github.com/hierarchytrix/solver/pkg/solver/mip"
)

// EngineFactory builds a fresh, empty [mip.Model] for one Solve call.
type EngineFactory func() mip.Model

// Solver is the exact ordering solver. NewEngine must be supplied by the
// caller (see pkg/solver/mip/lpsolve for the concrete adapter) so this
// package stays independent of any specific MIP library.
type Solver struct {
	NewEngine EngineFactory
}

var _ solver.Solver = (*Solver)(nil)

// New creates an exact Solver backed by newEngine.
func New(newEngine EngineFactory) *Solver {
	return &Solver{NewEngine: newEngine}
}

// Solve builds and solves the ordering MIP for g.
func (s *Solver) Solve(ctx context.Context, g *hierarchy.Graph, opts solver.Options) (solver.Result, error) {
	if g == nil {
		return solver.Result{}, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	if s.NewEngine == nil {
		return solver.Result{
			Status:     solver.StatusUnsolvable,
			Diagnostic: errors.New(errors.ErrCodeEngineUnavailable, "no MIP engine configured"),
		}, nil
	}

	nodes := g.Nodes()
	if len(nodes) == 0 {
		return solver.Result{Status: solver.StatusOptimal}, nil
	}

	b := newBuilder(s.NewEngine(), nodes)
	b.addAntisymmetry()
	b.addTransitivity()
	b.fixTopEdges(g.TopEdges())
	b.forbidTopCrossings(g.TopEdges())
	crossingVars := b.addBottomCrossingGadget(g.BottomEdges())
	b.setObjective(crossingVars)

	threads := min(4, runtime.NumCPU())
	b.model.SetThreads(threads)
	b.model.SetTimeLimit(opts.TimeLimit)

	status, err := b.model.Solve()
	if err != nil {
		return solver.Result{}, err
	}

	switch status {
	case mip.StatusInfeasible:
		return solver.Result{
			Status:     solver.StatusUnsolvable,
			Diagnostic: errors.New(errors.ErrCodeUnsolvable, "no feasible ordering satisfies the top-page planarity constraints"),
		}, nil
	case mip.StatusTimeLimitNoIncumbent:
		return solver.Result{
			Status:     solver.StatusUnsolvable,
			Diagnostic: errors.New(errors.ErrCodeTimeoutNoIncumbent, "time limit reached before any feasible ordering was found"),
		}, nil
	}

	order, ok := b.decode()
	if !ok {
		return solver.Result{
			Status:     solver.StatusUnsolvable,
			Diagnostic: errors.New(errors.ErrCodeInternal, "solved ordering variables do not form an acyclic tournament"),
		}, nil
	}

	pos := hierarchy.PosMap(order)
	result := solver.Result{
		LeafOrder: leavesInOrder(g, order),
		Crossings: hierarchy.CountCrossings(pos, g.BottomEdges()),
	}
	if status == mip.StatusTimeLimitWithIncumbent {
		result.Status = solver.StatusFeasible
		result.Diagnostic = errors.New(errors.ErrCodeTimeoutWithIncumbent, "time limit reached; returning best incumbent found")
	} else {
		result.Status = solver.StatusOptimal
	}
	return result, nil
}

func leavesInOrder(g *hierarchy.Graph, order []string) []string {
	out := make([]string, 0, len(order))
	for _, id := range order {
		if g.IsLeaf(id) {
			out = append(out, id)
		}
	}
	return out
}

// builder holds the per-call variable bookkeeping translating
// getKey(u,v)-style pair indexing into mip.VarRef lookups.
type builder struct {
	model mip.Model
	nodes []string
	index map[string]int
	// x[i][j] is true ("u precedes v") for ordered pair (nodes[i], nodes[j]).
	x [][]mip.VarRef
}

func newBuilder(m mip.Model, nodes []string) *builder {
	b := &builder{
		model: m,
		nodes: nodes,
		index: hierarchy.PosMap(nodes),
	}
	n := len(nodes)
	b.x = make([][]mip.VarRef, n)
	for i := range b.x {
		b.x[i] = make([]mip.VarRef, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			b.x[i][j] = m.AddBinaryVar(orderVarName(nodes[i], nodes[j]))
		}
	}
	return b
}

func orderVarName(u, v string) string { return "x_" + u + "_" + v }

// addAntisymmetry enforces x[u,v] + x[v,u] == 1 for every unordered pair.
func (b *builder) addAntisymmetry() {
	n := len(b.nodes)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			b.model.AddConstraint(
				[]mip.VarRef{b.x[i][j], b.x[j][i]},
				[]float64{1, 1},
				mip.Equal, 1,
			)
		}
	}
}

// addTransitivity enforces x[a,b]+x[b,c] <= x[a,c]+1 for every ordered
// triple, which together with antisymmetry forces a total order.
func (b *builder) addTransitivity() {
	n := len(b.nodes)
	for a := 0; a < n; a++ {
		for bb := 0; bb < n; bb++ {
			if bb == a {
				continue
			}
			for c := 0; c < n; c++ {
				if c == a || c == bb {
					continue
				}
				b.model.AddConstraint(
					[]mip.VarRef{b.x[a][bb], b.x[bb][c], b.x[a][c]},
					[]float64{1, 1, -1},
					mip.LessOrEqual, 1,
				)
			}
		}
	}
}

// fixTopEdges forces x[parent,child] == 1 for every tree edge, encoding
// invariant I1 (parent precedes descendants) directly as a constraint
// rather than leaving it to be discovered by the solver.
func (b *builder) fixTopEdges(topEdges []hierarchy.Edge) {
	for _, e := range topEdges {
		i, j := b.index[e.U], b.index[e.V]
		b.model.AddConstraint([]mip.VarRef{b.x[i][j]}, []float64{1}, mip.Equal, 1)
	}
}

// forbidTopCrossings adds the same crossing gadget as
// addBottomCrossingGadget for every pair of top edges, but with the
// crossing variable fixed at 0, enforcing invariant I2.
func (b *builder) forbidTopCrossings(topEdges []hierarchy.Edge) {
	n := len(topEdges)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			e1, e2 := topEdges[i], topEdges[j]
			if shareEndpoint(e1, e2) {
				continue
			}
			b.addCrossingInequalities(e1, e2, nil)
		}
	}
}

func shareEndpoint(e1, e2 hierarchy.Edge) bool {
	return e1.U == e2.U || e1.U == e2.V || e1.V == e2.U || e1.V == e2.V
}

// addBottomCrossingGadget adds one binary crossing variable per bottom
// edge pair plus the eight triangle inequalities linking it to the
// ordering variables, and returns the crossing variables for the
// objective.
func (b *builder) addBottomCrossingGadget(bottomEdges []hierarchy.Edge) []mip.VarRef {
	n := len(bottomEdges)
	var crossVars []mip.VarRef
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			e1, e2 := bottomEdges[i], bottomEdges[j]
			if shareEndpoint(e1, e2) {
				continue
			}
			c := b.model.AddBinaryVar("c_" + e1.U + "_" + e1.V + "__" + e2.U + "_" + e2.V)
			b.addCrossingInequalities(e1, e2, &c)
			crossVars = append(crossVars, c)
		}
	}
	return crossVars
}

// addCrossingInequalities adds the eight triangle-inequality constraints
// that force crossVar (or, if nil, the constant 0) to equal 1 whenever
// {a,b} and {c,d} interleave under the ordering variables. This mirrors
// the reference ILP's addCrossingConstr gadget: one inequality per cyclic
// interleaving of the four endpoints, covering both edges' two possible
// endpoint orientations so the gadget doesn't depend on which endpoint of
// e1/e2 was recorded as U vs. V.
func (b *builder) addCrossingInequalities(e1, e2 hierarchy.Edge, crossVar *mip.VarRef) {
	a, bb := b.index[e1.U], b.index[e1.V]
	c, d := b.index[e2.U], b.index[e2.V]

	addOne := func(x1, x2, x3 mip.VarRef) {
		if crossVar != nil {
			b.model.AddConstraint(
				[]mip.VarRef{x1, x2, x3, *crossVar},
				[]float64{1, 1, 1, -1},
				mip.LessOrEqual, 2,
			)
			return
		}
		b.model.AddConstraint(
			[]mip.VarRef{x1, x2, x3},
			[]float64{1, 1, 1},
			mip.LessOrEqual, 2,
		)
	}

	// All eight cyclic interleavings of {a,b} and {c,d}. Edges are stored
	// exactly as given in the input (no canonicalized endpoint order), so
	// all eight must be present - restricting to one or two patterns only
	// detects a crossing for specific U/V orientations of e1 and e2.
	addOne(b.x[a][c], b.x[c][bb], b.x[bb][d])
	addOne(b.x[bb][c], b.x[c][a], b.x[a][d])
	addOne(b.x[a][d], b.x[d][bb], b.x[bb][c])
	addOne(b.x[bb][d], b.x[d][a], b.x[a][c])
	addOne(b.x[c][a], b.x[a][d], b.x[d][bb])
	addOne(b.x[c][bb], b.x[bb][d], b.x[d][a])
	addOne(b.x[d][a], b.x[a][c], b.x[c][bb])
	addOne(b.x[d][bb], b.x[bb][c], b.x[c][a])
}

// setObjective minimizes the sum of bottom-edge crossing indicators.
func (b *builder) setObjective(crossVars []mip.VarRef) {
	coeffs := make([]float64, len(crossVars))
	for i := range coeffs {
		coeffs[i] = 1
	}
	b.model.SetObjectiveMinimize(crossVars, coeffs)
}

// decode reads the solved x variables as a tournament and topologically
// sorts it via Kahn's algorithm. Returns ok=false if the solved values do
// not form an acyclic tournament (should not happen for a correct,
// feasible MIP solve, but guards against numerical slop near 0.5).
func (b *builder) decode() ([]string, bool) {
	n := len(b.nodes)
	indegree := make([]int, n)
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if b.model.VarValue(b.x[i][j]) > 0.5 {
				adj[i] = append(adj[i], j)
				indegree[j]++
			}
		}
	}

	var queue []int
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	sort.Ints(queue)

	order := make([]string, 0, n)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, b.nodes[cur])
		var newlyFree []int
		for _, next := range adj[cur] {
			indegree[next]--
			if indegree[next] == 0 {
				newlyFree = append(newlyFree, next)
			}
		}
		sort.Ints(newlyFree)
		queue = append(queue, newlyFree...)
		sort.Ints(queue)
	}

	return order, len(order) == n
}
