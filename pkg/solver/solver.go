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
	"fmt"
	"math"
)

const (
	// DefaultTolerance is the numeric stopping tolerance used when a solver
	// is constructed without an explicit one.
	DefaultTolerance = 1e-3
)

// StandardForm is a linear program in the engine's standard form:
//
//	minimize    c^T x
//	subject to  A x  = b
//	            G x >= h
//	            lower <= x <= upper
//
// The inequality convention is G x >= h; capacity ceilings are encoded with
// negated rows by the problem builder. Bounds default to [0, +inf); infinite
// entries use math.Inf.
type StandardForm struct {
	// C is the cost vector, one entry per decision variable.
	C []float64 `json:"c"`

	// A and B form the equality system A x = b (demand conservation).
	A [][]float64 `json:"a"`
	B []float64   `json:"b"`

	// G and H form the inequality system G x >= h (capacity ceilings).
	G [][]float64 `json:"g"`
	H []float64   `json:"h"`

	// Lower and Upper are per-variable bounds.
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// NumVars returns the number of decision variables.
func (f *StandardForm) NumVars() int { return len(f.C) }

// Validate checks that all matrix and vector dimensions agree.
func (f *StandardForm) Validate() error {
	n := len(f.C)
	if n == 0 {
		return fmt.Errorf("zero-dimension problem: empty cost vector")
	}
	if len(f.A) != len(f.B) {
		return fmt.Errorf("equality system mismatch: %d rows vs %d rhs entries", len(f.A), len(f.B))
	}
	for i, row := range f.A {
		if len(row) != n {
			return fmt.Errorf("equality row %d has %d columns, want %d", i, len(row), n)
		}
	}
	if len(f.G) != len(f.H) {
		return fmt.Errorf("inequality system mismatch: %d rows vs %d rhs entries", len(f.G), len(f.H))
	}
	for i, row := range f.G {
		if len(row) != n {
			return fmt.Errorf("inequality row %d has %d columns, want %d", i, len(row), n)
		}
	}
	if len(f.Lower) != n || len(f.Upper) != n {
		return fmt.Errorf("bounds length mismatch: lower %d, upper %d, want %d", len(f.Lower), len(f.Upper), n)
	}
	for i := range f.Lower {
		if f.Lower[i] > f.Upper[i] {
			return fmt.Errorf("variable %d has crossed bounds [%v, %v]", i, f.Lower[i], f.Upper[i])
		}
	}
	return nil
}

// bindingInequalities returns the rows of G x >= h that can actually bind,
// dropping vacuous rows with h = -inf. The builder emits one such row when a
// problem has no real units so the solver always receives a well-formed
// inequality system.
func (f *StandardForm) bindingInequalities() ([][]float64, []float64) {
	g := make([][]float64, 0, len(f.G))
	h := make([]float64, 0, len(f.H))
	for i := range f.G {
		if math.IsInf(f.H[i], -1) {
			continue
		}
		g = append(g, f.G[i])
		h = append(h, f.H[i])
	}
	return g, h
}

// LPSolver is the pluggable solver contract. Implementations must be
// reentrant, or be wrapped with Serialized before concurrent use.
type LPSolver interface {
	// Solve returns the primal solution vector for the given problem.
	// Expected solver-internal failure modes (non-convergence, infeasible
	// or unbounded systems) are reported as a *SolveError, never as a
	// panic across this boundary.
	Solve(ctx context.Context, lp *StandardForm) ([]float64, error)
}

// SolveError reports that the backend failed to produce a solution.
type SolveError struct {
	// Reason is a short human-readable failure description.
	Reason string

	// Err is the backend's underlying error, if any.
	Err error
}

func (e *SolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("solver failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("solver failed: %s", e.Reason)
}

func (e *SolveError) Unwrap() error { return e.Err }
