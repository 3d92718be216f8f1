// Package solver defines the common contract implemented by the exact,
// heuristic, and hybrid leaf-ordering solvers.
package solver

import (
	"context"
	"time"

	"github.com/hierarchytrix/solver/pkg/errors"
	"github.com/hierarchytrix/solver/pkg/hierarchy"
)

// Status classifies how a Solve call concluded.
type Status string

const (
	// StatusOptimal means the returned order is provably optimal (E only,
	// apart from the trivial empty-graph result).
	StatusOptimal Status = "optimal"
	// StatusFeasible means the returned order is valid but not proved
	// optimal (H and Y on any non-empty graph, the input method, or E on a
	// timeout with an incumbent).
	StatusFeasible Status = "feasible"
	// StatusUnsolvable means no valid order was found at all.
	StatusUnsolvable Status = "unsolvable"
)

// Result is the outcome of a single Solve call.
type Result struct {
	// LeafOrder is the leaf subsequence of the computed linear order. Empty
	// on StatusUnsolvable.
	LeafOrder []string
	// Status reports how the result was reached.
	Status Status
	// Crossings is the bottom-edge crossing count of LeafOrder under the
	// full computed order. Meaningless when Status is StatusUnsolvable.
	Crossings int
	// Diagnostic is set by E when Status is not StatusOptimal, describing
	// why (timeout, infeasibility, ...); H, Y and the input method leave it
	// nil. It is not a Go error: callers that
	// want error semantics should check Diagnostic's Code against
	// errors.ErrCodeUnsolvable / errors.ErrCodeTimeoutNoIncumbent /
	// errors.ErrCodeTimeoutWithIncumbent via [errors.Is].
	Diagnostic *errors.Error
}

// Options configures a single Solve call.
type Options struct {
	// TimeLimit bounds wall-clock time for E and the restricted ILP calls
	// inside Y. Zero means no limit. H ignores TimeLimit except via ctx
	// cancellation, since it runs a bounded local-search loop.
	TimeLimit time.Duration
	// Seed seeds the deterministic pseudo-random candidate generator used
	// by H and Y. Solves with the same Seed over the same graph produce
	// the same result.
	Seed int64
	// Progress, if non-nil, is called during H/Y refinement with the
	// current best crossing count found so far. E does not call it.
	Progress func(bestCrossings int)
}

// Solver computes a leaf ordering for a hierarchy graph.
type Solver interface {
	// Solve computes a leaf order minimizing bottom-edge crossings subject
	// to the top-page planarity invariant. Solve never returns a non-nil
	// error for ordinary solve failures (infeasibility, timeout) - those
	// are reported via Result.Status/Result.Diagnostic. A non-nil error
	// return is reserved for programmer errors (e.g. g == nil) and context
	// cancellation.
	Solve(ctx context.Context, g *hierarchy.Graph, opts Options) (Result, error)
}

// InputOrder builds a Result directly from the graph's node-insertion
// order, implementing the "input" method of the orchestrator: no
// optimization, just the order the graph was declared in.
func InputOrder(g *hierarchy.Graph) Result {
	leaves := g.Leaves()
	pos := hierarchy.PosMap(g.Nodes())
	return Result{
		LeafOrder: leaves,
		Status:    StatusFeasible,
		Crossings: hierarchy.CountCrossings(pos, g.BottomEdges()),
	}
}
