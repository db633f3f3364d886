// Package optimizer composes the unit-assignment pipeline.
//
// The optimizer orchestrates the per-request flow by coordinating demand
// aggregation, problem building, the LP solve, and result diffing:
//
//	Demand Aggregation -> Problem Builder -> LP Solver -> Diff Engine
//	     (demand)           (builder)       (pkg/solver)    (diff)
//
// Example usage:
//
//	eng, err := optimizer.New(cfg)
//	if err != nil {
//	    return err
//	}
//
//	result, err := eng.RunScenario(ctx, optimizer.ScenarioSpec{
//	    Source:   src,
//	    Capacity: capacity,
//	})
//	if err != nil {
//	    log.Error(err, "scenario failed")
//	    return err
//	}
//
//	log.Info("scenario complete",
//	    "runID", result.RunID,
//	    "assignments", len(result.Assignments))
//
// Error Handling:
//
// Failures are split by boundary, mirroring who is able to act on them:
//   - SolveUnitAssignment (the primary, embeddable entry point) never
//     returns an error and never panics; every failure becomes the JSON
//     value {"error": "..."} so a bad request cannot abort a surrounding
//     batch of work.
//   - RunScenario propagates demand.FetchError, solver.SolveError and
//     diff.DecodeError to its caller, which is the right layer to map them
//     to a user-facing failure.
//   - Zero-dimension inputs (no services, or no real units) are not errors;
//     they yield an empty assignment list without touching the solver.
//
// Each request is computed synchronously and shares no mutable state with
// concurrent requests; the engine holds nothing between calls.
package optimizer
