// Package worker performs the single unit of work the Adaptive Controller
// dispatches: one HTTP GET against the upstream, classified into an
// outcome.Outcome and posted back to the controller's Result Channel.
package worker

import (
	"context"
	"net"
	"net/http"

	"github.com/faultrun/server/config"
	"github.com/faultrun/server/outcome"
)

// NewHTTPClient builds the *http.Client shared by every worker of a run.
// Connection pooling and timeouts mirror the original requester's client
// construction: a small idle-pool-per-host and bounded connect/request
// timeouts, since workers are numerous and short-lived.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConnsPerHost: 1,
		DialContext: (&net.Dialer{
			Timeout: *config.DialTimeout,
		}).DialContext,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   *config.RequestTimeout,
	}
}

// Run performs one GET against url and, unless ctx is cancelled first,
// posts exactly one outcome.Outcome to results tagged with version. If ctx
// is cancelled before the call completes or before the outcome can be
// delivered, no outcome is posted at all: this is the "no result on
// cancellation" half of the dispatch contract.
func Run(ctx context.Context, client *http.Client, url string, version outcome.Version, results chan<- outcome.Outcome) {
	kind, value, delivered := get(ctx, client, url)
	if !delivered {
		return
	}

	select {
	case results <- outcome.Outcome{Kind: kind, Value: value, Version: version}:
	case <-ctx.Done():
	}
}

// get issues the GET and classifies the response. delivered is false only
// when the call was aborted by ctx cancellation rather than by an
// ordinary transport or parse failure — a cancelled call must not be
// reported as TooManyRequests or Error, it must simply vanish.
func get(ctx context.Context, client *http.Client, url string) (kind outcome.Kind, value uint64, delivered bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return outcome.Error, 0, true
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, 0, false
		}
		k, v := outcome.Classify(nil, err)
		return k, v, true
	}

	k, v := outcome.Classify(resp, nil)
	return k, v, true
}
