package optimizer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wardflow/unit-assignment-optimizer/internal/logging"
	"github.com/wardflow/unit-assignment-optimizer/pkg/core"
)

// errorPayload is the failure value of the primary entry point.
type errorPayload struct {
	Error string `json:"error"`
}

// SolveUnitAssignment is the primary entry point, designed to be callable
// from inside an embedding query context. All four inputs are JSON payloads;
// the return value is either the JSON array of optimized allocations or the
// JSON value {"error": "..."}. It never returns an error and never lets a
// panic escape, so a single bad request cannot abort a surrounding batch of
// work.
func (e *Engine) SolveUnitAssignment(ctx context.Context, demandJSON, capacityJSON, affinityJSON, constraintsJSON []byte) (out []byte) {
	logger := logging.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Errorf("panic: %v", r), "Recovered panic at solve boundary")
			out = marshalError(fmt.Sprintf("internal error: %v", r))
		}
	}()

	req, err := core.ParseRequest(demandJSON, capacityJSON, affinityJSON, constraintsJSON)
	if err != nil {
		logger.V(logging.DEBUG).Info("Rejecting malformed request", "error", err.Error())
		return marshalError(err.Error())
	}

	assignments, err := e.Optimize(ctx, req)
	if err != nil {
		logger.Error(err, "Solve failed at boundary")
		return marshalError(err.Error())
	}

	allocations := make([]core.Allocation, len(assignments))
	for i, a := range assignments {
		allocations[i] = core.Allocation{
			Service:      a.Service,
			Unit:         a.Unit,
			PatientCount: a.PatientCount,
		}
	}

	out, err = json.Marshal(allocations)
	if err != nil {
		return marshalError(fmt.Sprintf("encoding result: %v", err))
	}
	return out
}

// marshalError builds the {"error": ...} value. Encoding a flat string
// cannot fail; the fallback literal covers the impossible path without
// panicking at the boundary.
func marshalError(msg string) []byte {
	if msg == "" {
		msg = "unknown error"
	}
	b, err := json.Marshal(errorPayload{Error: msg})
	if err != nil {
		return []byte(`{"error":"unknown error"}`)
	}
	return b
}
