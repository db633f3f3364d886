// Package builder converts an optimization request into the engine's
// standard-form linear program.
package builder

import (
	"context"
	"math"

	"github.com/go-logr/logr"

	"github.com/wardflow/unit-assignment-optimizer/internal/config"
	"github.com/wardflow/unit-assignment-optimizer/internal/logging"
	"github.com/wardflow/unit-assignment-optimizer/pkg/core"
	"github.com/wardflow/unit-assignment-optimizer/pkg/solver"
)

// Build assembles the standard-form LP for the given request using the
// frozen variable ordering in ix. The same index must later decode the
// solution vector; builder and diff engine operate on opposite ends of the
// same flattening.
//
// Returns nil when the problem has no services; a zero-dimension problem is
// never handed to a solver.
func Build(ctx context.Context, req *core.Request, ix *core.VariableIndex, cfg *config.Config) *solver.StandardForm {
	logger := logging.FromContext(ctx)

	numServices := ix.NumServices()
	numUnits := ix.NumUnits()
	if numServices == 0 || numUnits == 0 {
		return nil
	}
	numVars := ix.NumVars()

	form := &solver.StandardForm{
		C:     make([]float64, numVars),
		Lower: make([]float64, numVars),
		Upper: make([]float64, numVars),
	}

	// Cost vector: a large positive penalty keeps the overflow sink out of
	// any allocation that fits in real units; real units carry the negated
	// affinity so that maximizing clinical fit becomes minimization.
	for si, service := range ix.Services() {
		for ui, unit := range ix.Units() {
			idx := ix.Flatten(si, ui)
			if ix.IsOverflow(ui) {
				form.C[idx] = cfg.OverflowCost
			} else {
				form.C[idx] = -req.Affinity.Score(service, unit, cfg.NeutralAffinity)
			}
			form.Upper[idx] = math.Inf(1)
		}
	}

	// Demand conservation: one equality row per service, spanning all of
	// the service's columns including overflow. This is the hard guarantee
	// that every unit of demand lands somewhere.
	form.A = make([][]float64, numServices)
	form.B = make([]float64, numServices)
	for si, service := range ix.Services() {
		row := make([]float64, numVars)
		for ui := range ix.Units() {
			row[ix.Flatten(si, ui)] = 1.0
		}
		form.A[si] = row
		form.B[si] = req.Demand[service]
	}

	// Capacity ceilings: one G x >= h row per real unit, never for
	// overflow. The sign flip encodes "patients into unit <= capacity"
	// under the >= convention.
	numReal := ix.NumRealUnits()
	if numReal > 0 {
		form.G = make([][]float64, numReal)
		form.H = make([]float64, numReal)
		for ui := 0; ui < numReal; ui++ {
			row := make([]float64, numVars)
			for si := range ix.Services() {
				row[ix.Flatten(si, ui)] = -1.0
			}
			form.G[ui] = row
			form.H[ui] = -req.Capacity[ix.Units()[ui]]
		}
	} else {
		// Vacuous row 0 >= -inf, so the solver always receives a
		// well-formed inequality system.
		form.G = [][]float64{make([]float64, numVars)}
		form.H = []float64{math.Inf(-1)}
	}

	applyConstraints(logger, req.Constraints, ix, form)

	logger.V(logging.DEBUG).Info("Built standard-form problem",
		"services", numServices,
		"units", numUnits,
		"variables", numVars,
		"inequalities", len(form.G),
		"constraints", len(req.Constraints))

	return form
}

// applyConstraints overwrites variable bounds for force_flow rules. A rule
// naming a service or unit absent from the current problem is a no-op, not
// an error, so constraint sets stay reusable across scenarios with varying
// unit rosters.
func applyConstraints(logger logr.Logger, constraints []core.Constraint, ix *core.VariableIndex, form *solver.StandardForm) {
	for _, c := range constraints {
		if c.Type != core.ConstraintForceFlow {
			logger.V(logging.DEBUG).Info("Skipping constraint with unknown type",
				"type", c.Type, "service", c.Service, "unit", c.Unit)
			continue
		}
		idx := ix.VarIndexOf(c.Service, c.Unit)
		if idx < 0 {
			logger.V(logging.DEBUG).Info("Skipping constraint naming an entity absent from the problem",
				"service", c.Service, "unit", c.Unit)
			continue
		}
		if c.Min != nil {
			form.Lower[idx] = *c.Min
		}
		if c.Max != nil {
			form.Upper[idx] = *c.Max
		}
	}
}
