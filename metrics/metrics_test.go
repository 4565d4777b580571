package metrics_test

import (
	"testing"

	"github.com/faultrun/server/metrics"
	"github.com/m-lab/go/prometheusx/promtest"
)

func TestMetrics(t *testing.T) {
	// Touch every vector with at least one label combination so vet/lint
	// tooling and promtest can see them, matching this codebase's
	// established metrics smoke test.
	metrics.Outcomes.WithLabelValues("Success")
	metrics.Ceiling.WithLabelValues("FastGrowth")
	metrics.StrategyTransitions.WithLabelValues("FastGrowth", "Single")
	metrics.RunsStarted.Inc()
	metrics.RunsActive.Inc()
	metrics.RunsActive.Dec()
	metrics.RunsFinished.Inc()
	metrics.WorkersDispatched.Inc()

	if !promtest.LintMetrics(nil) {
		t.Log("There are lint errors in the prometheus metrics.")
	}
}
