package optimizer

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wardflow/unit-assignment-optimizer/internal/config"
	"github.com/wardflow/unit-assignment-optimizer/internal/demand"
	"github.com/wardflow/unit-assignment-optimizer/pkg/core"
	"github.com/wardflow/unit-assignment-optimizer/pkg/solver"
)

// failingSolver always reports a backend failure.
type failingSolver struct{}

func (failingSolver) Solve(context.Context, *solver.StandardForm) ([]float64, error) {
	return nil, &solver.SolveError{Reason: "backend unavailable"}
}

func float64Ptr(v float64) *float64 { return &v }

var _ = Describe("Optimize", func() {
	var (
		engine *Engine
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		engine, err = New(config.Default())
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Context("with a single service and unit", func() {
		It("should place all demand in the unit", func() {
			got, err := engine.Optimize(ctx, &core.Request{
				Demand:   core.DemandTotals{"Surgery": 10},
				Capacity: core.Capacities{"West": 20},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].Service).To(Equal("Surgery"))
			Expect(got[0].Unit).To(Equal("West"))
			Expect(got[0].PatientCount).To(BeNumerically("~", 10, 1e-6))
			Expect(got[0].Delta).To(BeNumerically("~", 10, 1e-6))
		})
	})

	Context("with competing units", func() {
		It("should prefer the unit with the higher clinical fit", func() {
			got, err := engine.Optimize(ctx, &core.Request{
				Demand:   core.DemandTotals{"Surgery": 10},
				Capacity: core.Capacities{"East": 20, "West": 20},
				Affinity: core.Affinity{"Surgery": {"West": 0.9, "East": 0.1}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].Unit).To(Equal("West"))
			Expect(got[0].PatientCount).To(BeNumerically("~", 10, 1e-6))
		})
	})

	Context("with a force_flow constraint", func() {
		It("should honor the minimum even against affinity", func() {
			got, err := engine.Optimize(ctx, &core.Request{
				Demand:   core.DemandTotals{"Surgery": 10},
				Capacity: core.Capacities{"East": 20, "West": 20},
				Affinity: core.Affinity{"Surgery": {"West": 0.9, "East": 0.1}},
				Constraints: []core.Constraint{
					{Type: core.ConstraintForceFlow, Service: "Surgery", Unit: "East", Min: float64Ptr(5)},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))

			byUnit := map[string]float64{}
			for _, a := range got {
				byUnit[a.Unit] = a.PatientCount
			}
			Expect(byUnit["East"]).To(BeNumerically("~", 5, 1e-6))
			Expect(byUnit["West"]).To(BeNumerically("~", 5, 1e-6))
		})

		It("should fail when constraints make the problem infeasible", func() {
			_, err := engine.Optimize(ctx, &core.Request{
				Demand:   core.DemandTotals{"Surgery": 10},
				Capacity: core.Capacities{"West": 20},
				Constraints: []core.Constraint{
					{Type: core.ConstraintForceFlow, Service: "Surgery", Unit: "West", Min: float64Ptr(15)},
				},
			})
			var solveErr *solver.SolveError
			Expect(errors.As(err, &solveErr)).To(BeTrue())
		})
	})

	Context("with demand beyond total capacity", func() {
		It("should spill the excess into the overflow unit", func() {
			got, err := engine.Optimize(ctx, &core.Request{
				Demand:   core.DemandTotals{"Surgery": 100},
				Capacity: core.Capacities{"West": 10},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
			Expect(got[0].Unit).To(Equal("West"))
			Expect(got[0].PatientCount).To(BeNumerically("~", 10, 1e-6))
			Expect(got[1].Unit).To(Equal(config.DefaultOverflowUnit))
			Expect(got[1].PatientCount).To(BeNumerically("~", 90, 1e-6))
		})
	})

	Context("with zero-dimension requests", func() {
		It("should return an empty list for empty demand", func() {
			got, err := engine.Optimize(ctx, &core.Request{
				Demand:   core.DemandTotals{},
				Capacity: core.Capacities{"West": 20},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
			Expect(got).NotTo(BeNil())
		})

		It("should return an empty list when no real units exist", func() {
			got, err := engine.Optimize(ctx, &core.Request{
				Demand:   core.DemandTotals{"Surgery": 10},
				Capacity: core.Capacities{},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
		})
	})

	Context("solution invariants", func() {
		It("should conserve demand and respect capacity", func() {
			req := &core.Request{
				Demand:   core.DemandTotals{"Surgery": 30, "Cardiology": 25, "Oncology": 12},
				Capacity: core.Capacities{"North": 20, "South": 25, "East": 15},
				Affinity: core.Affinity{
					"Surgery":    {"North": 0.8, "South": 0.2},
					"Cardiology": {"South": 0.95},
					"Oncology":   {"East": 0.7, "North": 0.1},
				},
			}
			got, err := engine.Optimize(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			perService := map[string]float64{}
			perUnit := map[string]float64{}
			for _, a := range got {
				perService[a.Service] += a.PatientCount
				perUnit[a.Unit] += a.PatientCount
			}
			for service, want := range req.Demand {
				Expect(perService[service]).To(BeNumerically("~", want, 0.02),
					"demand not conserved for %s", service)
			}
			for unit, beds := range req.Capacity {
				Expect(perUnit[unit]).To(BeNumerically("<=", beds+0.02),
					"capacity exceeded for %s", unit)
			}
		})
	})
})

var _ = Describe("SolveUnitAssignment", func() {
	var (
		engine *Engine
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		engine, err = New(config.Default())
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Context("with a well-formed request", func() {
		It("should return the allocation array", func() {
			out := engine.SolveUnitAssignment(ctx,
				[]byte(`{"Surgery": 10}`),
				[]byte(`{"West": 20}`),
				[]byte(`{}`),
				nil,
			)

			var allocations []core.Allocation
			Expect(json.Unmarshal(out, &allocations)).To(Succeed())
			Expect(allocations).To(HaveLen(1))
			Expect(allocations[0].Service).To(Equal("Surgery"))
			Expect(allocations[0].Unit).To(Equal("West"))
			Expect(allocations[0].PatientCount).To(BeNumerically("~", 10, 1e-6))
		})
	})

	Context("with malformed input", func() {
		It("should return an error value for broken JSON", func() {
			out := engine.SolveUnitAssignment(ctx,
				[]byte(`{not json`),
				[]byte(`{"West": 20}`),
				nil, nil,
			)

			var payload map[string]string
			Expect(json.Unmarshal(out, &payload)).To(Succeed())
			Expect(payload["error"]).To(ContainSubstring("malformed demand input"))
		})

		It("should return an error value for negative demand", func() {
			out := engine.SolveUnitAssignment(ctx,
				[]byte(`{"Surgery": -3}`),
				[]byte(`{"West": 20}`),
				nil, nil,
			)

			var payload map[string]string
			Expect(json.Unmarshal(out, &payload)).To(Succeed())
			Expect(payload["error"]).To(ContainSubstring("negative demand"))
		})
	})

	Context("with empty demand", func() {
		It("should return an empty array, not an error value", func() {
			out := engine.SolveUnitAssignment(ctx,
				[]byte(`{}`),
				[]byte(`{"West": 20}`),
				nil, nil,
			)
			Expect(string(out)).To(Equal("[]"))
		})
	})

	Context("with a failing backend", func() {
		It("should convert the failure to an error value", func() {
			failing, err := NewWithSolver(config.Default(), failingSolver{})
			Expect(err).NotTo(HaveOccurred())

			out := failing.SolveUnitAssignment(ctx,
				[]byte(`{"Surgery": 10}`),
				[]byte(`{"West": 20}`),
				nil, nil,
			)

			var payload map[string]string
			Expect(json.Unmarshal(out, &payload)).To(Succeed())
			Expect(payload["error"]).To(ContainSubstring("backend unavailable"))
		})
	})
})

var _ = Describe("RunScenario", func() {
	var (
		engine *Engine
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		engine, err = New(config.Default())
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Context("with an observed baseline", func() {
		It("should diff the optimized allocation against it", func() {
			result, err := engine.RunScenario(ctx, ScenarioSpec{
				Source: &demand.StaticSource{Rows: []demand.Row{
					{Service: "Surgery", Unit: "East", Count: 6},
					{Service: "Surgery", Unit: "West", Count: 4},
				}},
				Capacity:          core.Capacities{"East": 20, "West": 20},
				AffinityOverrides: core.Affinity{"Surgery": {"West": 0.9, "East": 0.1}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RunID).NotTo(BeEmpty())
			Expect(result.Status).To(Equal(StatusSuccess))

			// All ten move to West; East is drained.
			Expect(result.Assignments).To(HaveLen(2))
			west := result.Assignments[0]
			Expect(west.Unit).To(Equal("West"))
			Expect(west.PatientCount).To(BeNumerically("~", 10, 1e-6))
			Expect(west.OriginalCount).To(BeNumerically("~", 4, 1e-6))
			Expect(west.Delta).To(BeNumerically("~", 6, 1e-6))

			east := result.Assignments[1]
			Expect(east.Unit).To(Equal("East"))
			Expect(east.PatientCount).To(BeZero())
			Expect(east.OriginalCount).To(BeNumerically("~", 6, 1e-6))
			Expect(east.Delta).To(BeNumerically("~", -6, 1e-6))

			for _, a := range result.Assignments {
				Expect(a.OriginalCount + a.Delta).To(BeNumerically("~", a.PatientCount, 1e-9))
			}
		})
	})

	Context("when the demand query fails", func() {
		It("should return an error-status result and propagate the error", func() {
			cause := errors.New("connection refused")
			result, err := engine.RunScenario(ctx, ScenarioSpec{
				Source:   &demand.StaticSource{Err: cause},
				Capacity: core.Capacities{"West": 20},
			})
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, cause)).To(BeTrue())

			var fetchErr *demand.FetchError
			Expect(errors.As(err, &fetchErr)).To(BeTrue())
			Expect(result.Status).To(Equal(StatusError))
			Expect(result.Message).To(ContainSubstring("connection refused"))
			Expect(result.RunID).NotTo(BeEmpty())
		})
	})

	Context("when the solve fails", func() {
		It("should return an error-status result and propagate the error", func() {
			failing, err := NewWithSolver(config.Default(), failingSolver{})
			Expect(err).NotTo(HaveOccurred())

			result, err := failing.RunScenario(ctx, ScenarioSpec{
				Source: &demand.StaticSource{Rows: []demand.Row{
					{Service: "Surgery", Count: 10},
				}},
				Capacity: core.Capacities{"West": 20},
			})
			Expect(err).To(HaveOccurred())

			var solveErr *solver.SolveError
			Expect(errors.As(err, &solveErr)).To(BeTrue())
			Expect(result.Status).To(Equal(StatusError))
		})
	})

	Context("with no demand rows", func() {
		It("should succeed with an empty assignment list", func() {
			result, err := engine.RunScenario(ctx, ScenarioSpec{
				Source:   &demand.StaticSource{},
				Capacity: core.Capacities{"West": 20},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(StatusSuccess))
			Expect(result.Assignments).To(BeEmpty())
		})
	})
})
