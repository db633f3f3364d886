package optimizer

import (
	"context"

	"github.com/google/uuid"

	"github.com/wardflow/unit-assignment-optimizer/internal/demand"
	"github.com/wardflow/unit-assignment-optimizer/internal/logging"
	"github.com/wardflow/unit-assignment-optimizer/pkg/core"
)

// Scenario result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ScenarioSpec describes one simulation run: where demand comes from and the
// capacity, constraint, and affinity overrides to optimize against.
type ScenarioSpec struct {
	// Source supplies the demand rows; its 3-column rows also seed the
	// baseline used for diffing.
	Source demand.Source

	// Capacity maps real units to bed capacities.
	Capacity core.Capacities

	// Constraints are the scenario's force_flow rules.
	Constraints []core.Constraint

	// AffinityOverrides replace the neutral default scores where present.
	AffinityOverrides core.Affinity
}

// ScenarioResult is the simulation-facing outcome, including the baseline
// diff for every assignment.
type ScenarioResult struct {
	// RunID uniquely identifies this scenario run in logs and results.
	RunID string `json:"run_id"`

	// Status is success or error.
	Status string `json:"status"`

	// Message carries the failure description when Status is error.
	Message string `json:"message,omitempty"`

	// Assignments is the optimized allocation with per-location deltas.
	Assignments []core.Assignment `json:"assignments"`
}

// RunScenario composes the full diffing flow: demand query, aggregation,
// optimization, and baseline diff. Unlike the primary entry point it does
// not swallow failures: a failed demand query or a solver error payload
// propagates to the caller alongside an error-status result, since the
// simulation layer is the right place to map those to user-facing failures.
func (e *Engine) RunScenario(ctx context.Context, spec ScenarioSpec) (*ScenarioResult, error) {
	runID := uuid.NewString()
	logger := logging.FromContext(ctx).WithValues("runID", runID)
	ctx = logging.IntoContext(ctx, logger)

	rows, err := spec.Source.Fetch(ctx)
	if err != nil {
		logger.Error(err, "Demand query failed")
		return &ScenarioResult{RunID: runID, Status: StatusError, Message: err.Error()}, err
	}

	totals, baseline := demand.Aggregate(rows)
	logger.V(logging.DEBUG).Info("Aggregated demand",
		"rows", len(rows),
		"services", len(totals),
		"baselineEntries", len(baseline))

	req := &core.Request{
		Demand:      totals,
		Capacity:    spec.Capacity,
		Affinity:    spec.AffinityOverrides,
		Constraints: spec.Constraints,
		Baseline:    baseline,
	}

	assignments, err := e.Optimize(ctx, req)
	if err != nil {
		logger.Error(err, "Scenario optimization failed")
		return &ScenarioResult{RunID: runID, Status: StatusError, Message: err.Error()}, err
	}

	return &ScenarioResult{
		RunID:       runID,
		Status:      StatusSuccess,
		Assignments: assignments,
	}, nil
}
