// Package controller implements the Adaptive Controller: the state machine
// that expands and contracts the in-flight request budget in response to
// HTTP outcomes, together with the worker-dispatch loop that keeps exactly
// Max requests in flight at all times.
package controller

import (
	"context"
	"log"
	"net/http"

	"github.com/m-lab/go/logx"

	"github.com/faultrun/server/config"
	"github.com/faultrun/server/metrics"
	"github.com/faultrun/server/outcome"
	"github.com/faultrun/server/store"
	"github.com/faultrun/server/strategy"
	"github.com/faultrun/server/worker"
)

// debug gates high-frequency per-outcome tracing, which at full
// concurrency would otherwise dominate the logs.
var debug = logx.Debug

// Controller owns the ceiling, in-flight count, and strategy state for a
// single run. All of its state is confined to the goroutine that calls
// Run; it performs no locking of its own.
type Controller struct {
	id     uint16
	client *http.Client
	url    string
	store  *store.Store

	results chan outcome.Outcome

	max     uint32
	started uint32
	strat   strategy.State
}

// New constructs a Controller for id, ready to Run. max starts at
// config.RequestsStartCount and strategy starts at FastGrowth, per the
// spec's initial controller state.
func New(id uint16, client *http.Client, url string, st *store.Store) *Controller {
	return &Controller{
		id:      id,
		client:  client,
		url:     url,
		store:   st,
		results: make(chan outcome.Outcome, config.ResultChannelCapacity),
		max:     config.RequestsStartCount,
		strat:   strategy.New(),
	}
}

// Run spawns workers to fill the dispatch invariant and then consumes
// outcomes until ctx is cancelled. Its only observable side effect is
// calls to store.Insert on each success. Run returns once ctx is done; the
// caller (the Run Supervisor) is responsible for racing it against the
// run's deadline.
func (c *Controller) Run(ctx context.Context) {
	metrics.RunsStarted.Inc()
	defer metrics.RunsActive.Dec()
	metrics.RunsActive.Inc()

	c.refillToCeiling(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case out := <-c.results:
			c.handleOutcome(ctx, out)
		}
	}
}

// versionFor derives the version tag newly dispatched workers carry from
// the current strategy: FastGrowth workers are tagged First, every later
// strategy tags Second.
func (c *Controller) versionFor() outcome.Version {
	if c.strat.Kind == strategy.FastGrowth {
		return outcome.First
	}
	return outcome.Second
}

// spawnOne starts exactly one worker, incrementing started. It does
// nothing if ctx is already done, so cancellation never dispatches new
// workers even if it races a refill in progress.
func (c *Controller) spawnOne(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	c.started++
	metrics.WorkersDispatched.Inc()
	go worker.Run(ctx, c.client, c.url, c.versionFor(), c.results)
}

// refillToCeiling spawns max-started workers so that started == max,
// the controller's dispatch invariant.
func (c *Controller) refillToCeiling(ctx context.Context) {
	for c.started < c.max {
		c.spawnOne(ctx)
		if ctx.Err() != nil {
			return
		}
	}
}

// handleOutcome is the heart of the control law: for every received
// outcome it first decrements started, then dispatches on kind.
func (c *Controller) handleOutcome(ctx context.Context, out outcome.Outcome) {
	c.started--
	metrics.Outcomes.WithLabelValues(out.Kind.String()).Inc()

	switch out.Kind {
	case outcome.Error:
		// Asymmetric with Success by design: spawn exactly one
		// replacement, not a refill to ceiling.
		c.spawnOne(ctx)

	case outcome.Success:
		c.store.Insert(c.id, out.Value)
		c.max, c.strat = strategy.UpdateOnSuccess(c.max, c.strat)
		metrics.Ceiling.WithLabelValues(c.strat.Kind.String()).Set(float64(c.max))
		c.refillToCeiling(ctx)

	case outcome.TooManyRequests:
		// Gated on started <= max, evaluated after the decrement
		// above: this suppresses reduction while the system is
		// already shrinking below ceiling from an earlier 429. A
		// 429 carrying a stale (First) version after the strategy
		// has already left FastGrowth must not re-trigger a
		// transition meant for the current strategy's own
		// straggling requests — reduce_by_strategy's own version
		// check handles that; this guard is a separate, coarser one
		// on in-flight count, preserved exactly as specified.
		if c.started <= c.max {
			before := c.strat.Kind
			c.max, c.strat = strategy.ReduceOnThrottle(c.max, c.strat, out.Version)
			if c.strat.Kind != before {
				log.Printf("run %d: strategy %s -> %s, max=%d", c.id, before, c.strat.Kind, c.max)
				metrics.StrategyTransitions.WithLabelValues(before.String(), c.strat.Kind.String()).Inc()
			}
			metrics.Ceiling.WithLabelValues(c.strat.Kind.String()).Set(float64(c.max))
			c.refillToCeiling(ctx)
		} else {
			debug.Printf("run %d: ignoring stale 429 (started=%d max=%d)", c.id, c.started, c.max)
		}
	}
}
