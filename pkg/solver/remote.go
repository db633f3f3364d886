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
	"time"

	"github.com/go-resty/resty/v2"
)

// RemoteSolver is an LPSolver backed by an external solver service speaking a
// small JSON protocol: POST /solve with the problem, receive either the
// primal solution vector or an error payload. It exists so deployments can
// swap the in-process simplex for a dedicated solver without touching the
// problem builder or the diff engine.
type RemoteSolver struct {
	client *resty.Client
}

// NewRemoteSolver returns a RemoteSolver targeting baseURL.
func NewRemoteSolver(baseURL string, timeout time.Duration) *RemoteSolver {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &RemoteSolver{client: client}
}

// wireProblem mirrors StandardForm with JSON-safe bounds: infinite bounds are
// transported as null since IEEE infinities are not representable in JSON.
type wireProblem struct {
	C     []float64   `json:"c"`
	A     [][]float64 `json:"a"`
	B     []float64   `json:"b"`
	G     [][]float64 `json:"g"`
	H     []float64   `json:"h"`
	Lower []*float64  `json:"lower"`
	Upper []*float64  `json:"upper"`
}

type wireSolution struct {
	Solution []float64 `json:"solution"`
	Error    string    `json:"error"`
}

// Solve implements LPSolver.
func (r *RemoteSolver) Solve(ctx context.Context, prob *StandardForm) ([]float64, error) {
	if err := prob.Validate(); err != nil {
		return nil, &SolveError{Reason: "invalid problem", Err: err}
	}

	g, h := prob.bindingInequalities()
	body := wireProblem{
		C:     prob.C,
		A:     prob.A,
		B:     prob.B,
		G:     g,
		H:     h,
		Lower: finiteBounds(prob.Lower),
		Upper: finiteBounds(prob.Upper),
	}

	// Solver services are not guaranteed to label their responses; force
	// JSON decoding regardless of the Content-Type header.
	var out wireSolution
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		ForceContentType("application/json").
		Post("/solve")
	if err != nil {
		return nil, &SolveError{Reason: "solver service unreachable", Err: err}
	}
	if resp.IsError() {
		return nil, &SolveError{Reason: fmt.Sprintf("solver service returned %s: %s", resp.Status(), out.Error)}
	}
	if out.Error != "" {
		return nil, &SolveError{Reason: out.Error}
	}
	if len(out.Solution) != prob.NumVars() {
		return nil, &SolveError{
			Reason: fmt.Sprintf("solver service returned %d values, want %d", len(out.Solution), prob.NumVars()),
		}
	}
	return out.Solution, nil
}

// finiteBounds converts a bounds slice to its wire form, mapping infinite
// entries to null.
func finiteBounds(bounds []float64) []*float64 {
	out := make([]*float64, len(bounds))
	for i, v := range bounds {
		if math.IsInf(v, 0) {
			continue
		}
		b := v
		out[i] = &b
	}
	return out
}
