// Package lpsolve adapts github.com/draffensperger/golp (a Go binding to
// lp_solve) to the [mip.Model] capability interface, so the rest of the
// exact and hybrid solver code never imports lp_solve directly.
package lpsolve

import (
	"fmt"
	"time"

	"github.com/draffensperger/golp"

	"github.com/hierarchytrix/solver/pkg/solver/mip"
)

// Model wraps an *golp.LP configured for binary integer programming.
type Model struct {
	lp        *golp.LP
	nVars     int
	names     []string
	timeLimit time.Duration
}

var _ mip.Model = (*Model)(nil)

// New creates an empty Model.
func New() *Model {
	lp := golp.NewLP(0, 0)
	return &Model{lp: lp}
}

func (m *Model) AddBinaryVar(name string) mip.VarRef {
	idx := m.nVars
	m.nVars++
	m.names = append(m.names, name)
	m.lp.AddColumns(1)
	col := idx + 1 // golp columns are 1-indexed
	m.lp.SetBinary(col, true)
	m.lp.SetBounds(col, 0, 1)
	return mip.VarRef(idx)
}

func (m *Model) AddConstraint(vars []mip.VarRef, coeffs []float64, op mip.CompareOp, rhs float64) {
	row := make([]golp.Entry, len(vars))
	for i, v := range vars {
		row[i] = golp.Entry{Col: int(v) + 1, Val: coeffs[i]}
	}
	constr := golp.LE
	if op == mip.Equal {
		constr = golp.EQ
	}
	m.lp.AddConstraintSparse(row, constr, rhs)
}

func (m *Model) SetObjectiveMinimize(vars []mip.VarRef, coeffs []float64) {
	obj := make([]float64, m.nVars)
	for i, v := range vars {
		obj[int(v)] = coeffs[i]
	}
	m.lp.SetObjFn(obj)
	m.lp.SetMinimize()
}

func (m *Model) SetTimeLimit(d time.Duration) {
	m.timeLimit = d
	if d > 0 {
		m.lp.SetMaxSeconds(int(d.Seconds()))
	}
}

func (m *Model) SetThreads(n int) {
	// lp_solve does not expose a worker-thread count for the B&B search
	// golp drives; the time limit set by SetTimeLimit is its practical
	// throughput knob.
	_ = n
}

func (m *Model) Solve() (mip.Status, error) {
	ret := m.lp.Solve()
	switch ret {
	case golp.OPTIMAL, golp.SUBOPTIMAL:
		return mip.StatusOptimal, nil
	case golp.INFEASIBLE:
		return mip.StatusInfeasible, nil
	case golp.TIMEOUT:
		if m.hasIncumbent() {
			return mip.StatusTimeLimitWithIncumbent, nil
		}
		return mip.StatusTimeLimitNoIncumbent, nil
	default:
		return mip.StatusUnknown, fmt.Errorf("lpsolve: unexpected solve return code %v", ret)
	}
}

func (m *Model) hasIncumbent() bool {
	vars := m.lp.Variables()
	return len(vars) > 0
}

func (m *Model) VarValue(v mip.VarRef) float64 {
	return m.lp.Variables()[int(v)]
}
