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

// Package core provides the domain model for the unit-assignment optimization engine.
//
// This package contains the entities exchanged between the demand aggregator,
// the problem builder, the solver adapter, and the diff engine:
//
//   - Service: a clinical demand category with a patient count
//   - Unit: a physical capacity pool (bed count); a synthetic Overflow unit
//     is appended by the builder to keep every problem feasible
//   - Affinity: sparse clinical-fit scores biasing the optimizer toward
//     preferred units
//   - Constraint: hard force_flow routing rules overriding variable bounds
//   - Assignment: one optimized (service, unit) allocation with its baseline
//     count and delta
//   - VariableIndex: the frozen service/unit ordering that maps (service,
//     unit) pairs onto positions of the flat decision-variable vector
//
// All entities are constructed fresh per optimization request and are never
// mutated after construction. Each request is a pure function from inputs to
// an assignment list.
//
// The core package is designed to be:
//   - Immutable where possible (value types)
//   - Type-safe with strong domain boundaries
//   - Independent of any solver backend (pure domain logic)
//   - Well-tested with comprehensive unit tests
package core
