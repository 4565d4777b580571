// Package metrics defines the Prometheus metrics exported by the service,
// following the naming and doc-comment conventions of this codebase's
// other metrics packages: one package-level promauto var per series, with
// a comment naming the resulting metric and, for the labelled vectors,
// giving an example of use.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsStarted counts runs accepted via POST /runs.
	//
	// Provides metric:
	//   faultrun_runs_started_total
	RunsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultrun_runs_started_total",
		Help: "Total number of runs started.",
	})

	// RunsActive gauges the number of runs currently executing their
	// controller loop.
	//
	// Provides metric:
	//   faultrun_runs_active
	RunsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "faultrun_runs_active",
		Help: "Number of runs whose controller loop is currently executing.",
	})

	// WorkersDispatched counts every worker goroutine spawned across all
	// runs.
	//
	// Provides metric:
	//   faultrun_workers_dispatched_total
	WorkersDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultrun_workers_dispatched_total",
		Help: "Total number of worker requests dispatched.",
	})

	// Outcomes counts dispatched requests by how they resolved.
	//
	// Provides metric:
	//   faultrun_outcomes_total{kind}
	// Example usage:
	//   metrics.Outcomes.WithLabelValues("Success").Inc()
	Outcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faultrun_outcomes_total",
		Help: "Total number of dispatched requests, by outcome kind.",
	}, []string{"kind"})

	// Ceiling gauges the current concurrency ceiling (max) of the most
	// recently updated run, by strategy.
	//
	// Provides metric:
	//   faultrun_ceiling{strategy}
	Ceiling = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "faultrun_ceiling",
		Help: "Current concurrency ceiling, by strategy regime.",
	}, []string{"strategy"})

	// StrategyTransitions counts every one-way move through the
	// FastGrowth -> Single -> EveryN control law.
	//
	// Provides metric:
	//   faultrun_strategy_transitions_total{from,to}
	// Example usage:
	//   metrics.StrategyTransitions.WithLabelValues("FastGrowth", "Single").Inc()
	StrategyTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faultrun_strategy_transitions_total",
		Help: "Total number of strategy regime transitions, by from/to kind.",
	}, []string{"from", "to"})

	// RunsFinished counts runs whose deadline has elapsed and been torn
	// down by the Run Supervisor, distinct from RunsActive's "loop
	// exited" signal.
	//
	// Provides metric:
	//   faultrun_runs_finished_total
	RunsFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultrun_runs_finished_total",
		Help: "Total number of runs torn down after their deadline elapsed.",
	})
)
