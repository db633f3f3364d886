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

// Package demand provides pluggable demand-row sources and the aggregation
// that folds rows into solver inputs.
//
// A Source yields rows of a tabular demand query: (service, count) or
// (service, unit, count). Aggregate folds them into the per-service totals
// consumed by the problem builder and the per-(service, unit) baseline
// consumed by the diff engine. Only three-column rows contribute to the
// baseline; a two-column row has no known unit, so its count shapes demand
// totals only.
//
// Implementations include PostgresSource (a caller-supplied SQL query run
// against a database/sql handle) and StaticSource (in-memory rows for tests
// and scenario files). Query failures surface as a *FetchError carrying the
// original cause; no partial data is returned.
package demand
