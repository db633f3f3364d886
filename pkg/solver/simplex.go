/*
Copyright 2025 The Wardflow Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package solver

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// SimplexSolver solves the standard form with gonum's simplex implementation.
// It is stateless and safe for concurrent use; each call builds its own
// matrices. A solve runs to completion or to the simplex method's own
// convergence limit; wrap with WithTimeout for a hard deadline.
type SimplexSolver struct {
	// Tol is the numeric tolerance passed to the simplex method.
	Tol float64
}

// NewSimplexSolver returns a SimplexSolver with the given tolerance.
// A non-positive tolerance falls back to DefaultTolerance.
func NewSimplexSolver(tol float64) *SimplexSolver {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return &SimplexSolver{Tol: tol}
}

// Solve implements LPSolver.
//
// gonum's simplex takes problems as minimize c^T x subject to G x <= h,
// A x = b with free variables, so the engine's G x >= h rows are negated and
// the per-variable bounds are materialized as additional inequality rows
// before conversion to gonum's standard form.
func (s *SimplexSolver) Solve(ctx context.Context, prob *StandardForm) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SolveError{Reason: "context done before solve", Err: err}
	}
	if err := prob.Validate(); err != nil {
		return nil, &SolveError{Reason: "invalid problem", Err: err}
	}

	n := prob.NumVars()
	gRows, hVals := s.gonumInequalities(prob)

	g := mat.NewDense(len(gRows), n, nil)
	h := make([]float64, len(hVals))
	for i, row := range gRows {
		g.SetRow(i, row)
		h[i] = hVals[i]
	}

	var a mat.Matrix
	var b []float64
	if len(prob.A) > 0 {
		aDense := mat.NewDense(len(prob.A), n, nil)
		for i, row := range prob.A {
			aDense.SetRow(i, row)
		}
		a = aDense
		b = prob.B
	}

	cStd, aStd, bStd := lp.Convert(prob.C, g, h, a, b)
	_, xStd, err := lp.Simplex(cStd, aStd, bStd, s.Tol, nil)
	if err != nil {
		return nil, classifySimplexError(err)
	}

	// Convert splits each free variable into positive and negative parts;
	// the original variable is their difference.
	x := make([]float64, n)
	for i := range x {
		x[i] = xStd[i] - xStd[n+i]
		if math.IsNaN(x[i]) {
			return nil, &SolveError{Reason: "solution contains NaN"}
		}
	}
	return x, nil
}

// gonumInequalities collects all <=-convention inequality rows: the negated
// binding G x >= h rows, one lower-bound row per variable, and one
// upper-bound row per variable with a finite upper bound.
func (s *SimplexSolver) gonumInequalities(prob *StandardForm) ([][]float64, []float64) {
	n := prob.NumVars()
	bindG, bindH := prob.bindingInequalities()

	rows := make([][]float64, 0, len(bindG)+2*n)
	rhs := make([]float64, 0, len(bindG)+2*n)

	for i, row := range bindG {
		neg := make([]float64, n)
		for j, v := range row {
			neg[j] = -v
		}
		rows = append(rows, neg)
		rhs = append(rhs, -bindH[i])
	}

	for i := 0; i < n; i++ {
		if !math.IsInf(prob.Lower[i], -1) {
			row := make([]float64, n)
			row[i] = -1
			rows = append(rows, row)
			rhs = append(rhs, -prob.Lower[i])
		}
		if !math.IsInf(prob.Upper[i], 1) {
			row := make([]float64, n)
			row[i] = 1
			rows = append(rows, row)
			rhs = append(rhs, prob.Upper[i])
		}
	}

	return rows, rhs
}

// classifySimplexError maps gonum's sentinel errors onto a SolveError with a
// stable reason string.
func classifySimplexError(err error) *SolveError {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return &SolveError{Reason: "problem is infeasible", Err: err}
	case errors.Is(err, lp.ErrUnbounded):
		return &SolveError{Reason: "problem is unbounded", Err: err}
	case errors.Is(err, lp.ErrSingular):
		return &SolveError{Reason: "singular basis encountered", Err: err}
	default:
		return &SolveError{Reason: "simplex did not converge", Err: err}
	}
}
