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
	"sync"
	"time"
)

// Serialized wraps a non-reentrant backend so that concurrent optimization
// requests take turns instead of sharing one solver instance unsynchronized.
func Serialized(inner LPSolver) LPSolver {
	return &serializedSolver{inner: inner}
}

type serializedSolver struct {
	mu    sync.Mutex
	inner LPSolver
}

func (s *serializedSolver) Solve(ctx context.Context, prob *StandardForm) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Solve(ctx, prob)
}

// WithTimeout wraps a backend with a hard per-solve deadline. A solve that
// outlives the deadline is reported as a SolveError; the inner solve keeps
// running in its goroutine until it finishes, since simplex iterations
// cannot be interrupted.
func WithTimeout(inner LPSolver, d time.Duration) LPSolver {
	return &timeoutSolver{inner: inner, d: d}
}

type timeoutSolver struct {
	inner LPSolver
	d     time.Duration
}

type solveResult struct {
	x   []float64
	err error
}

func (s *timeoutSolver) Solve(ctx context.Context, prob *StandardForm) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()

	ch := make(chan solveResult, 1)
	go func() {
		x, err := s.inner.Solve(ctx, prob)
		ch <- solveResult{x: x, err: err}
	}()

	select {
	case res := <-ch:
		return res.x, res.err
	case <-ctx.Done():
		return nil, &SolveError{Reason: "solve deadline exceeded", Err: ctx.Err()}
	}
}
