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

// Package solver provides the LP solver abstraction for the unit-assignment engine.
//
// The rest of the system depends only on the LPSolver contract: given a
// standard-form linear program, return the primal solution vector or a typed
// SolveError. Any conforming LP backend can be substituted without touching
// the problem builder or the diff engine.
//
// Key Components:
//
//   - StandardForm: the (c, A, b, G, h, bounds) problem tuple
//   - LPSolver: the narrow (lp) -> vector contract
//   - SimplexSolver: gonum-backed simplex implementation
//   - RemoteSolver: HTTP client for an external solver service
//   - Serialized, WithTimeout: composable wrappers for non-reentrant
//     backends and hard deadlines
//
// Example usage:
//
//	s := solver.NewSimplexSolver(solver.DefaultTolerance)
//	x, err := s.Solve(ctx, lp)
//	if err != nil {
//	    var serr *solver.SolveError
//	    if errors.As(err, &serr) {
//	        log.Info("solver did not converge", "reason", serr.Reason)
//	    }
//	    return err
//	}
//
// Tie-breaking between decision variables with equal cost is left to the
// backend's internal pivot path and is not deterministic across backends.
package solver
