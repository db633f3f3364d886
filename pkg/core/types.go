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

package core

import (
	"encoding/json"
	"fmt"
)

// ConstraintType identifies the kind of a routing constraint.
type ConstraintType string

const (
	// ConstraintForceFlow pins a (service, unit) pair to a minimum and/or
	// maximum patient flow, overriding the variable's default [0, +inf) bounds.
	ConstraintForceFlow ConstraintType = "force_flow"
)

// DemandTotals maps a service to its total patient demand.
type DemandTotals map[string]float64

// Capacities maps a real unit to its bed capacity.
// The synthetic Overflow unit is never part of this map.
type Capacities map[string]float64

// Affinity holds sparse clinical-fit scores in [0,1]: service -> unit -> score.
// Missing entries are neutral and resolve to the configured default (0.5).
type Affinity map[string]map[string]float64

// Score returns the clinical-fit score for (service, unit), or def if the
// pair has no entry.
func (a Affinity) Score(service, unit string, def float64) float64 {
	if units, ok := a[service]; ok {
		if s, ok := units[unit]; ok {
			return s
		}
	}
	return def
}

// Constraint is a hard routing rule. Only the force_flow variant exists today.
// A constraint referencing a service or unit absent from the current problem
// is silently ignored, so constraint sets stay reusable across scenarios with
// varying unit rosters.
type Constraint struct {
	// Type is the constraint variant tag.
	Type ConstraintType `json:"type" yaml:"type"`

	// Service is the demand category the rule applies to.
	Service string `json:"service" yaml:"service"`

	// Unit is the capacity pool the rule applies to.
	Unit string `json:"unit" yaml:"unit"`

	// Min, if set, replaces the variable's lower bound.
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`

	// Max, if set, replaces the variable's upper bound.
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// BaselineKey identifies one observed (service, unit) location.
type BaselineKey struct {
	Service string
	Unit    string
}

// Baseline maps observed pre-optimization locations to patient counts.
// It is only populated when the demand source reports a unit column.
type Baseline map[BaselineKey]float64

// Assignment is one optimized allocation with its diff against the baseline.
// JSON field names are part of the external contract and must not change.
type Assignment struct {
	// Service is the demand category.
	Service string `json:"Service"`

	// Unit is the unit receiving the patients; may be the Overflow unit.
	Unit string `json:"Unit"`

	// PatientCount is the optimized count, rounded for output stability.
	PatientCount float64 `json:"Patient_Count"`

	// OriginalCount is the observed baseline count (0 if unobserved).
	OriginalCount float64 `json:"Original_Count"`

	// Delta is PatientCount - OriginalCount, exactly.
	Delta float64 `json:"Delta"`
}

// Allocation is the optimization-only view of an assignment, returned by the
// primary entry point where no baseline is involved.
type Allocation struct {
	Service      string  `json:"Service"`
	Unit         string  `json:"Unit"`
	PatientCount float64 `json:"Patient_Count"`
}

// Request carries one optimization problem's inputs.
type Request struct {
	// Demand maps each service to its total patient demand.
	Demand DemandTotals

	// Capacity maps each real unit to its bed capacity.
	Capacity Capacities

	// Affinity holds the sparse clinical-fit scores.
	Affinity Affinity

	// Constraints are the hard force_flow routing rules.
	Constraints []Constraint

	// Baseline is the observed pre-optimization distribution, used by the
	// diff engine. Empty when the demand source has no unit column.
	Baseline Baseline
}

// MalformedInputError reports demand, capacity, affinity, or constraint
// payloads that could not be parsed or that violate basic invariants. It is
// caught at the outer boundary of the primary entry point and converted to
// an error value, never raised past it.
type MalformedInputError struct {
	// Field names the offending input (demand, capacity, affinity, constraints).
	Field string

	// Err is the underlying cause.
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s input: %v", e.Field, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// ParseRequest decodes the four JSON payloads of the primary entry point into
// a Request. A nil or empty constraints payload is treated as no constraints.
// Negative demand or capacity values are rejected as malformed.
func ParseRequest(demandJSON, capacityJSON, affinityJSON, constraintsJSON []byte) (*Request, error) {
	req := &Request{
		Demand:   DemandTotals{},
		Capacity: Capacities{},
		Affinity: Affinity{},
		Baseline: Baseline{},
	}

	if err := json.Unmarshal(demandJSON, &req.Demand); err != nil {
		return nil, &MalformedInputError{Field: "demand", Err: err}
	}
	for service, count := range req.Demand {
		if count < 0 {
			return nil, &MalformedInputError{
				Field: "demand",
				Err:   fmt.Errorf("service %q has negative demand %v", service, count),
			}
		}
	}

	if err := json.Unmarshal(capacityJSON, &req.Capacity); err != nil {
		return nil, &MalformedInputError{Field: "capacity", Err: err}
	}
	for unit, beds := range req.Capacity {
		if beds < 0 {
			return nil, &MalformedInputError{
				Field: "capacity",
				Err:   fmt.Errorf("unit %q has negative capacity %v", unit, beds),
			}
		}
	}

	if len(affinityJSON) > 0 {
		if err := json.Unmarshal(affinityJSON, &req.Affinity); err != nil {
			return nil, &MalformedInputError{Field: "affinity", Err: err}
		}
	}

	if len(constraintsJSON) > 0 {
		if err := json.Unmarshal(constraintsJSON, &req.Constraints); err != nil {
			return nil, &MalformedInputError{Field: "constraints", Err: err}
		}
	}

	return req, nil
}
