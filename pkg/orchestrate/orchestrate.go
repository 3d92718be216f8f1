// Package orchestrate wires graph loading, caching, auditing, and the
// three leaf-ordering solvers behind a single Solve call, mirroring how a
// CLI command and an HTTP handler both want the same caching and logging
// behavior without duplicating it at each call site.
package orchestrate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hierarchytrix/solver/pkg/audit"
	"github.com/hierarchytrix/solver/pkg/cache"
	"github.com/hierarchytrix/solver/pkg/errors"
	"github.com/hierarchytrix/solver/pkg/hierarchy"
	"github.com/hierarchytrix/solver/pkg/observability"
	"github.com/hierarchytrix/solver/pkg/solver"
	"github.com/hierarchytrix/solver/pkg/solver/heuristic"
	"github.com/hierarchytrix/solver/pkg/solver/hybrid"
	"github.com/hierarchytrix/solver/pkg/solver/ilp"
	"github.com/hierarchytrix/solver/pkg/solver/mip"
)

// EngineFactory builds a fresh, empty MIP engine for one exact or hybrid
// solve call. It has the same underlying type as [ilp.EngineFactory] and
// [hybrid.EngineFactory] so one factory configures both.
type EngineFactory func() mip.Model

// Method names accepted by Solve.
const (
	MethodInput     = "input"
	MethodILP       = "ilp"
	MethodHeuristic = "heuristic"
	MethodHybrid    = "hybrid"
)

// InstanceSource resolves an instance ID to its graph. Callers supply
// this (typically backed by a directory of graph files, or an in-memory
// map for the HTTP surface's POST /instances).
type InstanceSource interface {
	Graph(ctx context.Context, instanceID string) (*hierarchy.Graph, error)
}

// Orchestrator dispatches solve requests across the input/ILP/heuristic/
// hybrid methods with caching and auditing. It is stateless except for
// its cache, audit store, and logger - multiple goroutines can safely
// share one Orchestrator.
type Orchestrator struct {
	Instances InstanceSource
	Cache     cache.Cache
	Keyer     cache.Keyer
	Audit     audit.Store
	Logger    *log.Logger
	EngineNew EngineFactory
}

// New creates an Orchestrator. A nil Cache disables caching (NullCache), a
// nil Keyer uses DefaultKeyer, a nil Audit discards records (NullStore),
// and a nil Logger uses the package default.
func New(instances InstanceSource, c cache.Cache, keyer cache.Keyer, store audit.Store, logger *log.Logger, engineNew EngineFactory) *Orchestrator {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if store == nil {
		store = audit.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		Instances: instances,
		Cache:     c,
		Keyer:     keyer,
		Audit:     store,
		Logger:    logger,
		EngineNew: engineNew,
	}
}

// Solve resolves instanceID's graph and returns the leaf order produced by
// method, consulting the order cache first and recording every request
// (hit or miss) to the audit store. A cache hit returns the byte-identical
// order string from the prior solve with no solver work performed,
// satisfying the caching idempotence property. An empty result is never
// cached.
func (o *Orchestrator) Solve(ctx context.Context, instanceID, method string, timeLimit time.Duration) (solver.Result, error) {
	start := time.Now()
	observability.Solve().OnSolveStart(ctx, instanceID, method)

	g, err := o.Instances.Graph(ctx, instanceID)
	if err != nil {
		o.record(ctx, instanceID, method, timeLimit, false, "", 0, time.Since(start), err)
		observability.Solve().OnSolveComplete(ctx, instanceID, method, "", 0, time.Since(start), err)
		return solver.Result{}, errors.Wrap(errors.ErrCodeInstanceNotFound, err, "instance %s", instanceID)
	}

	graphHash := cache.Hash(mustMarshalGraph(g))
	key := o.Keyer.OrderKey(graphHash, cache.OrderKeyOpts{Method: method, TimeLimit: timeLimit})

	if data, hit, err := o.Cache.Get(ctx, key); err == nil && hit && len(data) > 0 {
		observability.Cache().OnCacheHit(ctx, "order")
		order := strings.Fields(string(data))
		result := solver.Result{
			LeafOrder: order,
			Status:    solver.StatusOptimal,
			Crossings: hierarchy.CountCrossings(hierarchy.PosMap(order), g.BottomEdges()),
		}
		o.record(ctx, instanceID, method, timeLimit, true, string(result.Status), result.Crossings, time.Since(start), nil)
		observability.Solve().OnSolveComplete(ctx, instanceID, method, string(result.Status), result.Crossings, time.Since(start), nil)
		o.Logger.Info("solve cache hit", "instance", instanceID, "method", method)
		return result, nil
	}
	observability.Cache().OnCacheMiss(ctx, "order")

	result, err := o.dispatch(ctx, g, method, timeLimit)
	if err != nil {
		o.record(ctx, instanceID, method, timeLimit, false, "", 0, time.Since(start), err)
		observability.Solve().OnSolveComplete(ctx, instanceID, method, "", 0, time.Since(start), err)
		return solver.Result{}, err
	}

	if len(result.LeafOrder) > 0 {
		orderBytes := []byte(strings.Join(result.LeafOrder, " "))
		_ = o.Cache.Set(ctx, key, orderBytes, 0)
		observability.Cache().OnCacheSet(ctx, "order", len(orderBytes))
	}

	o.Logger.Info("solved",
		"instance", instanceID,
		"method", method,
		"status", result.Status,
		"crossings", result.Crossings,
		"duration", time.Since(start))

	o.record(ctx, instanceID, method, timeLimit, false, string(result.Status), result.Crossings, time.Since(start), nil)
	observability.Solve().OnSolveComplete(ctx, instanceID, method, string(result.Status), result.Crossings, time.Since(start), nil)
	return result, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, g *hierarchy.Graph, method string, timeLimit time.Duration) (solver.Result, error) {
	opts := solver.Options{TimeLimit: timeLimit}

	switch method {
	case MethodInput:
		return solver.InputOrder(g), nil
	case MethodILP:
		return ilp.New(ilp.EngineFactory(o.EngineNew)).Solve(ctx, g, opts)
	case MethodHeuristic:
		return heuristic.New().Solve(ctx, g, opts)
	case MethodHybrid:
		return hybrid.New(hybrid.EngineFactory(o.EngineNew)).Solve(ctx, g, opts)
	default:
		return solver.Result{}, errors.New(errors.ErrCodeInvalidMethod, "unknown method %q", method)
	}
}

func (o *Orchestrator) record(ctx context.Context, instanceID, method string, timeLimit time.Duration, cacheHit bool, status string, crossings int, duration time.Duration, err error) {
	rec := audit.Record{
		InstanceID: instanceID,
		Method:     method,
		TimeLimit:  timeLimit,
		CacheHit:   cacheHit,
		Status:     status,
		Crossings:  crossings,
		Duration:   duration,
		Timestamp:  time.Now(),
	}
	if err != nil {
		rec.Err = err.Error()
	}
	if auditErr := o.Audit.Append(ctx, rec); auditErr != nil {
		o.Logger.Warn("audit append failed", "instance", instanceID, "err", auditErr)
	}
}

func mustMarshalGraph(g *hierarchy.Graph) []byte {
	var buf []byte
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		buf = append(buf, []byte(fmt.Sprintf("%s|%s|%d\n", n.ID, n.Parent, n.Kind))...)
	}
	for _, e := range g.BottomEdges() {
		buf = append(buf, []byte(fmt.Sprintf("%s-%s\n", e.U, e.V))...)
	}
	return buf
}
