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

// Package metrics exposes Prometheus instrumentation for the optimization
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SolvesTotal counts optimization solves by outcome.
	SolvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uao_solves_total",
		Help: "Total optimization solves, labeled by outcome status.",
	}, []string{"status"})

	// SolveDuration observes end-to-end solve latency, build through diff.
	SolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "uao_solve_duration_seconds",
		Help:    "End-to-end optimization latency in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	// OverflowPatients counts patients routed to the overflow sink, a direct
	// signal of capacity shortfall.
	OverflowPatients = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uao_overflow_patients_total",
		Help: "Cumulative patients routed to the overflow unit.",
	})
)

// Status label values for SolvesTotal.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusEmpty   = "empty"
)
