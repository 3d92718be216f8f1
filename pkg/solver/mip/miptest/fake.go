// Package miptest provides a brute-force [mip.Model] implementation for
// exercising the exact and hybrid solvers in tests, without requiring the
// real lp_solve binding. It enumerates every 0/1 assignment of its
// variables, which is only viable for the small instances unit tests use.
package miptest

import (
	"fmt"
	"time"

	"github.com/hierarchytrix/solver/pkg/solver/mip"
)

type constraint struct {
	vars   []mip.VarRef
	coeffs []float64
	op     mip.CompareOp
	rhs    float64
}

// Model is a brute-force binary integer programming engine for tests.
type Model struct {
	names       []string
	constraints []constraint
	objVars     []mip.VarRef
	objCoeffs   []float64
	best        []float64
}

var _ mip.Model = (*Model)(nil)

// New creates an empty brute-force Model.
func New() *Model { return &Model{} }

func (m *Model) AddBinaryVar(name string) mip.VarRef {
	m.names = append(m.names, name)
	return mip.VarRef(len(m.names) - 1)
}

func (m *Model) AddConstraint(vars []mip.VarRef, coeffs []float64, op mip.CompareOp, rhs float64) {
	m.constraints = append(m.constraints, constraint{vars: vars, coeffs: coeffs, op: op, rhs: rhs})
}

func (m *Model) SetObjectiveMinimize(vars []mip.VarRef, coeffs []float64) {
	m.objVars = vars
	m.objCoeffs = coeffs
}

func (m *Model) SetTimeLimit(time.Duration) {}

func (m *Model) SetThreads(int) {}

// Solve enumerates all 2^n assignments and keeps the feasible one with the
// lowest objective value. Intended only for the handful of variables a
// unit-test-sized instance produces.
func (m *Model) Solve() (mip.Status, error) {
	n := len(m.names)
	if n > 20 {
		return mip.StatusUnknown, fmt.Errorf("miptest: %d variables exceeds brute-force limit", n)
	}

	var bestObj float64
	found := false
	assignment := make([]float64, n)

	total := uint64(1) << uint(n)
	for mask := uint64(0); mask < total; mask++ {
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				assignment[i] = 1
			} else {
				assignment[i] = 0
			}
		}
		if !m.satisfies(assignment) {
			continue
		}
		obj := m.objective(assignment)
		if !found || obj < bestObj {
			found = true
			bestObj = obj
			m.best = append([]float64(nil), assignment...)
		}
	}

	if !found {
		return mip.StatusInfeasible, nil
	}
	return mip.StatusOptimal, nil
}

func (m *Model) satisfies(assignment []float64) bool {
	for _, c := range m.constraints {
		sum := 0.0
		for i, v := range c.vars {
			sum += c.coeffs[i] * assignment[int(v)]
		}
		switch c.op {
		case mip.Equal:
			if sum != c.rhs {
				return false
			}
		default:
			if sum > c.rhs {
				return false
			}
		}
	}
	return true
}

func (m *Model) objective(assignment []float64) float64 {
	sum := 0.0
	for i, v := range m.objVars {
		sum += m.objCoeffs[i] * assignment[int(v)]
	}
	return sum
}

func (m *Model) VarValue(v mip.VarRef) float64 {
	if int(v) >= len(m.best) {
		return 0
	}
	return m.best[int(v)]
}
