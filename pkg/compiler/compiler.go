// Package compiler orchestrates the schematic-to-constraint pipeline:
// translate the graph, make the single authoritative decision-procedure
// call, and project the outcome into the Manifold IR. Execution is
// strictly sequential; the only blocking point is the solver call, which
// honors the passed context.
package compiler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/manifold-lang/gomanifold/pkg/ir"
	"github.com/manifold-lang/gomanifold/pkg/logging"
	"github.com/manifold-lang/gomanifold/pkg/metrics"
	"github.com/manifold-lang/gomanifold/pkg/schematic"
	"github.com/manifold-lang/gomanifold/pkg/smt"
	"github.com/manifold-lang/gomanifold/pkg/solver"
	"github.com/manifold-lang/gomanifold/pkg/translate"
)

// Compiler runs the pipeline. Zero-value defaults: dReal on PATH,
// DefaultPrecision, no logging, no metrics.
type Compiler struct {
	solver    solver.Solver
	precision float64
	log       logging.Logger
	metrics   *metrics.Registry
	irName    string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithSolver replaces the decision-procedure backend.
func WithSolver(s solver.Solver) Option {
	return func(c *Compiler) { c.solver = s }
}

// WithPrecision sets the delta handed to the decision procedure. It
// controls the width of returned intervals, not a timeout.
func WithPrecision(p float64) Option {
	return func(c *Compiler) { c.precision = p }
}

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) Option {
	return func(c *Compiler) { c.log = log }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(c *Compiler) { c.metrics = m }
}

// WithIRName sets the exported document name.
func WithIRName(name string) Option {
	return func(c *Compiler) { c.irName = name }
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		solver:    &solver.DReal{},
		precision: solver.DefaultPrecision,
		log:       logging.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate builds the constraint formula without solving. Exposed for
// diagnostics and tests.
func (c *Compiler) Translate(s *schematic.Schematic) (*smt.Formula, error) {
	f, err := translate.Schematic(s)
	if err != nil {
		if c.metrics != nil {
			c.metrics.TranslationErrors.Inc()
		}
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.ConstraintsEmitted.Observe(float64(f.Len()))
	}
	return f, nil
}

// Solve translates the schematic and queries the decision procedure
// once. Returns solver.ErrUnsatisfiable when no consistent physical
// configuration exists. Re-running on an unmodified schematic
// re-translates from scratch and is idempotent.
func (c *Compiler) Solve(ctx context.Context, s *schematic.Schematic) (*solver.Model, error) {
	log := c.log.With(logging.String("run_id", uuid.NewString()))

	f, err := c.Translate(s)
	if err != nil {
		log.Error("translation failed", logging.Component("translate"), logging.Err(err))
		return nil, err
	}
	log.Info("schematic translated",
		logging.Component("translate"),
		logging.Int("constraints", f.Len()),
		logging.Int("variables", len(f.Vars())),
	)

	start := time.Now()
	model, err := c.solver.Solve(ctx, f, c.precision)
	elapsed := time.Since(start)

	status := "sat"
	switch {
	case errors.Is(err, solver.ErrUnsatisfiable):
		status = "unsat"
	case err != nil:
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.SolvesTotal.WithLabelValues(status).Inc()
		c.metrics.SolveDuration.Observe(elapsed.Seconds())
	}
	if err != nil {
		log.Info("solve finished",
			logging.Component("solver"),
			logging.String("status", status),
			logging.Duration("elapsed", elapsed),
			logging.Err(err),
		)
		return nil, err
	}
	log.Info("solve finished",
		logging.Component("solver"),
		logging.String("status", status),
		logging.Duration("elapsed", elapsed),
		logging.Float64("delta", model.Delta),
		logging.Int("intervals", len(model.Intervals)),
	)
	return model, nil
}

// Export solves the schematic and projects the model into the IR.
func (c *Compiler) Export(ctx context.Context, s *schematic.Schematic) (*ir.Document, error) {
	model, err := c.Solve(ctx, s)
	if err != nil {
		return nil, err
	}
	proj := &ir.Projector{Name: c.irName, Log: c.log}
	return proj.Project(s, model)
}
