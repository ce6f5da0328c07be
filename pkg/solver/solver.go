// Package solver defines the decision-procedure contract and the dReal
// backend. The procedure receives one conjoined formula plus a numeric
// precision (the delta controlling interval width, not a timeout) and
// answers either with an interval per variable or with unsatisfiability.
// A single call is authoritative; there is no retry or backtracking.
package solver

import (
	"context"
	"errors"
	"math"

	"github.com/manifold-lang/gomanifold/pkg/smt"
)

// ErrUnsatisfiable is returned when the decision procedure proves that no
// consistent physical configuration exists. It is a distinct outcome, not
// a degenerate model: callers must branch on it explicitly.
var ErrUnsatisfiable = errors.New("solver: formula is unsatisfiable")

// DefaultPrecision is the delta handed to the decision procedure when the
// caller does not choose one.
const DefaultPrecision = 10.0

// Interval is the closed range a variable may take in a delta-sat model.
type Interval struct {
	Lo, Hi float64
}

// Unbounded reports whether either end of the interval hit the solver's
// representable-infinity sentinel, meaning the quantity needs an explicit
// bound before the number is meaningful.
func (i Interval) Unbounded() bool {
	return math.Abs(i.Lo) >= math.MaxFloat64 || math.Abs(i.Hi) >= math.MaxFloat64 ||
		math.IsInf(i.Lo, 0) || math.IsInf(i.Hi, 0)
}

// Model is a satisfiable outcome: every formula variable mapped to an
// admissible interval.
type Model struct {
	// Delta is the precision the solver reported for this model.
	Delta float64

	// Intervals is keyed by rendered variable name.
	Intervals map[string]Interval
}

// Lookup returns the interval for a variable.
func (m *Model) Lookup(v smt.Variable) (Interval, bool) {
	iv, ok := m.Intervals[v.Name()]
	return iv, ok
}

// Solver is the decision-procedure interface. Implementations must return
// ErrUnsatisfiable for a proven-unsat formula and a complete Model
// otherwise.
type Solver interface {
	Solve(ctx context.Context, f *smt.Formula, precision float64) (*Model, error)
}

// Func adapts a plain function to the Solver interface.
type Func func(ctx context.Context, f *smt.Formula, precision float64) (*Model, error)

// Solve calls fn.
func (fn Func) Solve(ctx context.Context, f *smt.Formula, precision float64) (*Model, error) {
	return fn(ctx, f, precision)
}
