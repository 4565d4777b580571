package worker_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/faultrun/server/internal/testhttp"
	"github.com/faultrun/server/outcome"
	"github.com/faultrun/server/worker"
)

func TestRunDeliversSuccess(t *testing.T) {
	results := make(chan testhttp.Result, 1)
	results <- testhttp.Result{Response: &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"value":3}`)),
	}}
	client := testhttp.Client(results)

	out := make(chan outcome.Outcome, 1)
	worker.Run(context.Background(), client, "http://example.invalid", outcome.First, out)

	got := <-out
	if got.Kind != outcome.Success || got.Value != 3 || got.Version != outcome.First {
		t.Errorf("got %+v, want Success value=3 version=First", got)
	}
}

func TestRunDeliversTooManyRequestsOnTransportError(t *testing.T) {
	results := make(chan testhttp.Result, 1)
	results <- testhttp.Result{Err: errors.New("connection refused")}
	client := testhttp.Client(results)

	out := make(chan outcome.Outcome, 1)
	worker.Run(context.Background(), client, "http://example.invalid", outcome.Second, out)

	got := <-out
	if got.Kind != outcome.TooManyRequests {
		t.Errorf("kind = %v, want TooManyRequests", got.Kind)
	}
}

func TestRunDeliversNothingOnCancellation(t *testing.T) {
	results := make(chan testhttp.Result)
	client := testhttp.Client(results)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan outcome.Outcome, 1)
	done := make(chan struct{})
	go func() {
		worker.Run(ctx, client, "http://example.invalid", outcome.First, out)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	select {
	case got := <-out:
		t.Errorf("unexpected outcome delivered: %+v", got)
	default:
	}
}
