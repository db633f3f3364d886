// Package diff decodes the solver's flat solution vector into structured
// assignments and computes the delta against the observed baseline.
package diff

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/wardflow/unit-assignment-optimizer/internal/config"
	"github.com/wardflow/unit-assignment-optimizer/internal/logging"
	"github.com/wardflow/unit-assignment-optimizer/pkg/core"
)

// DecodeError reports that a solver output could not be interpreted, for
// example when its dimension does not match the variable index. It
// propagates to the scenario-facing caller, which maps it to a user-visible
// failure.
type DecodeError struct {
	// Reason describes what was wrong with the output.
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode solver output: %s", e.Reason)
}

// Decode reads the solution vector through the same variable index the
// builder used, discards numerical noise, and diffs each allocation against
// the baseline. Locations present in the baseline but fully drained by the
// optimizer are synthesized as zero-count, negative-delta rows so the sparse
// solver output cannot hide them.
func Decode(ctx context.Context, solution []float64, ix *core.VariableIndex, baseline core.Baseline, cfg *config.Config) ([]core.Assignment, error) {
	logger := logging.FromContext(ctx)

	if len(solution) != ix.NumVars() {
		return nil, &DecodeError{
			Reason: fmt.Sprintf("solution has %d values, want %d", len(solution), ix.NumVars()),
		}
	}

	assignments := []core.Assignment{}
	touched := make(map[core.BaselineKey]bool, len(baseline))

	for si, service := range ix.Services() {
		for ui, unit := range ix.Units() {
			value := solution[ix.Flatten(si, ui)]
			// Values at or below the noise floor are solver residues
			// (1e-12 scale artifacts), not allocations.
			if value <= cfg.NoiseFloor {
				continue
			}

			key := core.BaselineKey{Service: service, Unit: unit}
			touched[key] = true

			count := roundTo(value, cfg.RoundingDigits)
			original := baseline[key]
			assignments = append(assignments, core.Assignment{
				Service:       service,
				Unit:          unit,
				PatientCount:  count,
				OriginalCount: original,
				Delta:         count - original,
			})
		}
	}

	assignments = append(assignments, drainedRows(baseline, touched, cfg)...)

	logger.V(logging.DEBUG).Info("Decoded solution",
		"assignments", len(assignments),
		"baselineEntries", len(baseline))

	return assignments, nil
}

// drainedRows synthesizes assignments for baseline locations the optimizer
// emptied out entirely. Rows are ordered by service then unit so output is
// deterministic.
func drainedRows(baseline core.Baseline, touched map[core.BaselineKey]bool, cfg *config.Config) []core.Assignment {
	keys := make([]core.BaselineKey, 0)
	for key, original := range baseline {
		if touched[key] || original <= cfg.NoiseFloor {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Service != keys[j].Service {
			return keys[i].Service < keys[j].Service
		}
		return keys[i].Unit < keys[j].Unit
	})

	rows := make([]core.Assignment, 0, len(keys))
	for _, key := range keys {
		original := baseline[key]
		rows = append(rows, core.Assignment{
			Service:       key.Service,
			Unit:          key.Unit,
			PatientCount:  0.0,
			OriginalCount: original,
			Delta:         -original,
		})
	}
	return rows
}

// roundTo rounds v to the given number of decimal digits.
func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
