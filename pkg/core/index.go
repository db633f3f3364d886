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

import "sort"

// VariableIndex freezes the service and unit ordering of one optimization
// request. The problem builder and the diff engine operate on opposite ends
// of the same flat decision-variable vector, so both must share a single
// index computed once per request rather than re-sorting key sets
// independently.
//
// Ordering invariant: services ascending; units ascending with the overflow
// unit appended last. The flat position of (serviceIdx, unitIdx) is
// serviceIdx*len(units) + unitIdx.
type VariableIndex struct {
	services []string
	units    []string
	numReal  int
}

// NewVariableIndex builds the frozen ordering from the request's service and
// real-unit key sets. The overflow unit is always appended after the sorted
// real units.
func NewVariableIndex(demand DemandTotals, capacity Capacities, overflowUnit string) *VariableIndex {
	services := make([]string, 0, len(demand))
	for s := range demand {
		services = append(services, s)
	}
	sort.Strings(services)

	units := make([]string, 0, len(capacity)+1)
	for u := range capacity {
		units = append(units, u)
	}
	sort.Strings(units)
	numReal := len(units)
	units = append(units, overflowUnit)

	return &VariableIndex{services: services, units: units, numReal: numReal}
}

// Services returns the ordered service names.
func (ix *VariableIndex) Services() []string { return ix.services }

// Units returns the ordered unit names, overflow last.
func (ix *VariableIndex) Units() []string { return ix.units }

// NumServices returns the number of services.
func (ix *VariableIndex) NumServices() int { return len(ix.services) }

// NumUnits returns the number of units including overflow.
func (ix *VariableIndex) NumUnits() int { return len(ix.units) }

// NumRealUnits returns the number of real (capacity-bearing) units.
func (ix *VariableIndex) NumRealUnits() int { return ix.numReal }

// NumVars returns the length of the flat decision-variable vector.
func (ix *VariableIndex) NumVars() int { return len(ix.services) * len(ix.units) }

// IsOverflow reports whether unitIdx denotes the overflow unit.
func (ix *VariableIndex) IsOverflow(unitIdx int) bool { return unitIdx == ix.numReal }

// Flatten maps (serviceIdx, unitIdx) onto its flat vector position.
func (ix *VariableIndex) Flatten(serviceIdx, unitIdx int) int {
	return FlattenIndex(serviceIdx, unitIdx, len(ix.units))
}

// VarIndexOf returns the flat position of a (service, unit) pair by name,
// or -1 if either name is not part of this index.
func (ix *VariableIndex) VarIndexOf(service, unit string) int {
	si := sort.SearchStrings(ix.services, service)
	if si >= len(ix.services) || ix.services[si] != service {
		return -1
	}
	for ui, u := range ix.units {
		if u == unit {
			return ix.Flatten(si, ui)
		}
	}
	return -1
}

// FlattenIndex is the load-bearing flattening function shared by the problem
// builder and the diff engine: serviceIdx*numUnits + unitIdx.
func FlattenIndex(serviceIdx, unitIdx, numUnits int) int {
	return serviceIdx*numUnits + unitIdx
}
