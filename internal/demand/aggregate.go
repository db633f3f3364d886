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
	"github.com/wardflow/unit-assignment-optimizer/pkg/core"
)

// Aggregate folds demand rows into the two maps the pipeline needs: total
// demand per service, and the observed (service, unit) baseline. Counts sum
// across duplicate rows. Rows without a unit contribute to totals only.
func Aggregate(rows []Row) (core.DemandTotals, core.Baseline) {
	totals := core.DemandTotals{}
	baseline := core.Baseline{}

	for _, row := range rows {
		totals[row.Service] += row.Count
		if row.Unit == "" {
			continue
		}
		baseline[core.BaselineKey{Service: row.Service, Unit: row.Unit}] += row.Count
	}

	return totals, baseline
}
