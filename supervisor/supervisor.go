// Package supervisor implements the Run Supervisor: it races the Adaptive
// Controller against the run's wall-clock deadline, and on deadline tears
// the run down — marking it finished, releasing the global running flag,
// and cancelling the controller's context so every in-flight worker
// aborts.
package supervisor

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/faultrun/server/controller"
	"github.com/faultrun/server/metrics"
	"github.com/faultrun/server/store"
)

// Run starts a Controller for id and lets it run until whichever of two
// things happens first: the deadline (seconds from now) elapses, or the
// controller's loop exits on its own (which does not happen in normal
// operation, since its loop is unbounded, but is handled for
// completeness). Run is meant to be invoked as its own goroutine by the
// HTTP handler that accepts a start-run request; it returns once the run
// is fully torn down.
func Run(id uint16, seconds uint16, client *http.Client, url string, st *store.Store, running *atomic.Bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := controller.New(id, client, url, st)

	done := make(chan struct{})
	go func() {
		ctrl.Run(ctx)
		close(done)
	}()

	timer := time.NewTimer(time.Duration(seconds) * time.Second)
	defer timer.Stop()

	select {
	case <-timer.C:
		// Order matters: mark the run ended and release the running
		// flag before cancelling the controller, so once the deadline
		// has fired a GET observes the run as FINISHED and a new
		// start-run is accepted without waiting for the in-flight
		// workers to wind down.
		st.MarkEnded(id)
		running.Store(false)
		metrics.RunsFinished.Inc()
		cancel()
		<-done

	case <-done:
		// The controller exited on its own. Controller.Run returns only
		// once ctx is done, and ctx is cancelled only in the deadline
		// branch above, so this branch is not taken in practice.
		// Nothing further to tear down.
	}
}
