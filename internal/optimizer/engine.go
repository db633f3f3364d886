package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/wardflow/unit-assignment-optimizer/internal/builder"
	"github.com/wardflow/unit-assignment-optimizer/internal/config"
	"github.com/wardflow/unit-assignment-optimizer/internal/diff"
	"github.com/wardflow/unit-assignment-optimizer/internal/logging"
	"github.com/wardflow/unit-assignment-optimizer/internal/metrics"
	"github.com/wardflow/unit-assignment-optimizer/pkg/core"
	"github.com/wardflow/unit-assignment-optimizer/pkg/solver"
)

// Engine runs the optimization pipeline. It is stateless across requests and
// safe for concurrent use as long as its solver is; New applies the
// configured serialization and timeout wrappers so that holds for every
// configured backend.
type Engine struct {
	cfg    *config.Config
	solver solver.LPSolver
}

// New builds an Engine with the backend selected by cfg.
func New(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var backend solver.LPSolver
	switch cfg.SolverBackend {
	case config.BackendSimplex:
		backend = solver.NewSimplexSolver(cfg.Tolerance)
	case config.BackendRemote:
		backend = solver.NewRemoteSolver(cfg.RemoteSolverURL, cfg.SolveTimeout)
	default:
		return nil, fmt.Errorf("unsupported solver backend: %q", cfg.SolverBackend)
	}

	if cfg.SerializeSolves {
		backend = solver.Serialized(backend)
	}
	if cfg.SolveTimeout > 0 {
		backend = solver.WithTimeout(backend, cfg.SolveTimeout)
	}

	return &Engine{cfg: cfg, solver: backend}, nil
}

// NewWithSolver builds an Engine around a caller-supplied solver backend.
// The backend is used as-is; no wrappers are applied.
func NewWithSolver(cfg *config.Config, s solver.LPSolver) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, solver: s}, nil
}

// Optimize runs build, solve and diff for one request and returns the
// assignment list. Zero-dimension requests (no services or no real units)
// yield an empty list without calling the solver.
func (e *Engine) Optimize(ctx context.Context, req *core.Request) ([]core.Assignment, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	ix := core.NewVariableIndex(req.Demand, req.Capacity, e.cfg.OverflowUnit)
	if ix.NumServices() == 0 || ix.NumRealUnits() == 0 {
		logger.V(logging.DEBUG).Info("Zero-dimension request, skipping solve",
			"services", ix.NumServices(),
			"realUnits", ix.NumRealUnits())
		metrics.SolvesTotal.WithLabelValues(metrics.StatusEmpty).Inc()
		return []core.Assignment{}, nil
	}

	form := builder.Build(ctx, req, ix, e.cfg)
	if form == nil {
		metrics.SolvesTotal.WithLabelValues(metrics.StatusEmpty).Inc()
		return []core.Assignment{}, nil
	}

	solution, err := e.solver.Solve(ctx, form)
	if err != nil {
		metrics.SolvesTotal.WithLabelValues(metrics.StatusError).Inc()
		return nil, err
	}

	assignments, err := diff.Decode(ctx, solution, ix, req.Baseline, e.cfg)
	if err != nil {
		metrics.SolvesTotal.WithLabelValues(metrics.StatusError).Inc()
		return nil, err
	}

	e.observe(assignments, start)
	logger.Info("Optimization complete",
		"services", ix.NumServices(),
		"realUnits", ix.NumRealUnits(),
		"assignments", len(assignments),
		"duration", time.Since(start))

	return assignments, nil
}

// observe records success metrics, including overflow spill.
func (e *Engine) observe(assignments []core.Assignment, start time.Time) {
	metrics.SolvesTotal.WithLabelValues(metrics.StatusSuccess).Inc()
	metrics.SolveDuration.Observe(time.Since(start).Seconds())
	for _, a := range assignments {
		if a.Unit == e.cfg.OverflowUnit {
			metrics.OverflowPatients.Add(a.PatientCount)
		}
	}
}
