// Package pkg provides the core libraries for hierarchytrix, a two-page
// book embedding solver for cluster hierarchies.
//
// # Overview
//
// hierarchytrix computes a linear order of a hierarchy's leaves that keeps
// the cluster tree planar on a "top page" while minimizing edge crossings
// among the original graph's non-hierarchy edges on a "bottom page". The
// pkg directory is organized into four areas:
//
//  1. Graph Data Structures ([hierarchy], [hierarchy/perm])
//  2. Solvers ([solver], [solver/ilp], [solver/heuristic], [solver/hybrid])
//  3. Orchestration and Caching ([orchestrate], [cache], [audit])
//  4. Data Import/Export and Visualization ([io], [visualize])
//
// # Architecture
//
// The typical data flow through hierarchytrix:
//
//	Hierarchy graph document (JSON)
//	         ↓
//	    [io] package (parse into a [hierarchy.Graph])
//	         ↓
//	    [orchestrate] package (cache lookup, solve dispatch, audit)
//	         ↓
//	    [solver] package (input/ilp/heuristic/hybrid leaf ordering)
//	         ↓
//	    Leaf order + crossing count, optionally rendered via [visualize]
//
// # Quick Start
//
// Load a graph and solve for a leaf order:
//
//	import (
//	    "context"
//	    "fmt"
//	    "time"
//	    "github.com/hierarchytrix/solver/pkg/io"
//	    "github.com/hierarchytrix/solver/pkg/solver/hybrid"
//	    "github.com/hierarchytrix/solver/pkg/solver"
//	    "github.com/hierarchytrix/solver/pkg/solver/mip"
//	    "github.com/hierarchytrix/solver/pkg/solver/mip/lpsolve"
//	)
//
//	g, _ := io.ImportJSON("graph.json")
//	s := hybrid.New(func() mip.Model { return lpsolve.New() })
//	result, _ := s.Solve(context.Background(), g, solver.Options{TimeLimit: 30 * time.Second})
//	fmt.Println(result.LeafOrder)
//
// # Main Packages
//
// ## Graph Data Structures
//
// [hierarchy] - The core graph type: a rooted cluster tree plus a set of
// bottom-page edges between leaves, with crossing counting and the
// top-page planarity check (cluster contiguity) the solvers rely on. It has
// no separate checks for parent-before-descendant or direct-leaf-child
// consecutiveness.
//
// [hierarchy/perm] - PQ-trees and permutation enumeration, used by the
// heuristic solver as one more source of candidate child orders and by the
// pqtree debug command; the exact solver does not use it.
//
// ## Solvers
//
// [solver] - The [solver.Solver] interface and shared [solver.Result]/
// [solver.Options]/[solver.Status] types, plus the trivial input-order
// solver.
//
// [solver/ilp] - Exact solver: an integer linear program over crossing
// indicator variables, solved via a pluggable [solver/mip.Model] engine.
//
// [solver/heuristic] - Fast approximate solver: barycenter-style sweeps
// over the cluster tree.
//
// [solver/hybrid] - Runs the heuristic first, then re-optimizes the order
// of each cluster whose children are all leaves with a small restricted
// ILP over that block alone, keeping a change only when it adds no
// crossings.
//
// [solver/mip] - The [mip.Model] interface solvers build their ILP against.
// [solver/mip/lpsolve] wraps lp_solve; [solver/mip/miptest] is a
// deterministic fake for tests.
//
// ## Orchestration and Caching
//
// [orchestrate] - Wires instance loading, the order cache, auditing, and
// solver dispatch behind one [orchestrate.Orchestrator.Solve] call, shared
// by the CLI and the HTTP API.
//
// [cache] - Content-addressed caching of computed orders keyed by graph
// hash, method, time limit, and seed. [cache/redis] provides a
// Redis-backed [cache.Cache].
//
// [audit] - Append-only records of every solve request (cache hit or
// miss, status, crossing count, duration). [audit/mongo] provides a
// MongoDB-backed [audit.Store].
//
// ## Data Import/Export and Visualization
//
// [io] - Import/export hierarchy graphs in JSON.
//
// [visualize] - Renders a hierarchy graph, with an optional leaf-order
// overlay, as a Graphviz diagram (DOT or SVG).
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/solver/...             # Specific package
//	go test -run Example                 # Examples only
//
// [hierarchy]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/hierarchy
// [hierarchy/perm]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/hierarchy/perm
// [solver]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/solver
// [solver/ilp]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/solver/ilp
// [solver/heuristic]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/solver/heuristic
// [solver/hybrid]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/solver/hybrid
// [solver/mip]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/solver/mip
// [orchestrate]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/orchestrate
// [cache]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/cache
// [cache/redis]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/cache/redis
// [audit]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/audit
// [audit/mongo]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/audit/mongo
// [io]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/io
// [visualize]: https://pkg.go.dev/github.com/hierarchytrix/solver/pkg/visualize
package pkg
