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

package demand

import (
	"context"
	"fmt"
)

// Row is one record of a tabular demand result. Unit is empty when the
// source query has no unit column.
type Row struct {
	Service string
	Unit    string
	Count   float64
}

// Source is the pluggable demand collaborator. Implementations run one query
// per optimization request; the engine never caches results across requests.
type Source interface {
	// Name returns the unique name of this source (e.g., "postgres", "static").
	Name() string

	// Fetch returns all demand rows for the current request, or a
	// *FetchError if the underlying query failed. Partial results are
	// never returned.
	Fetch(ctx context.Context) ([]Row, error)
}

// FetchError reports that the external demand query failed. It always
// carries the original cause and propagates to the scenario orchestrator,
// which maps it to a caller-visible failure.
type FetchError struct {
	// Source is the name of the failing source.
	Source string

	// Err is the underlying query error.
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("demand fetch from %s failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StaticSource serves a fixed set of rows. Used by tests and by scenario
// files that inline their demand table.
type StaticSource struct {
	// Rows are returned verbatim from Fetch.
	Rows []Row

	// Err, if set, is returned instead, wrapped in a FetchError.
	Err error
}

// Name implements Source.
func (s *StaticSource) Name() string { return "static" }

// Fetch implements Source.
func (s *StaticSource) Fetch(_ context.Context) ([]Row, error) {
	if s.Err != nil {
		return nil, &FetchError{Source: s.Name(), Err: s.Err}
	}
	return s.Rows, nil
}
