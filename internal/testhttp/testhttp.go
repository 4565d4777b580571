// Package testhttp provides a scripted http.RoundTripper for driving worker
// and controller tests deterministically, without a network. It
// consolidates this codebase's two near-identical channel-backed transport
// helpers into one, extended to also script transport-level errors, which
// the original pair had no way to express.
package testhttp

import "net/http"

// Result is one scripted round trip: either a response or an error, never
// both.
type Result struct {
	Response *http.Response
	Err      error
}

// channelTransport hands back scripted Results in order, blocking if the
// channel is empty.
type channelTransport struct {
	results <-chan Result
}

// RoundTrip implements http.RoundTripper, ignoring req's contents but
// honoring its context: a cancelled request unblocks with ctx.Err(),
// matching what *http.Transport does for a real connection. Without this a
// mock transport blocked on an empty results channel would hang forever
// past cancellation, unlike production.
func (t channelTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	select {
	case r := <-t.results:
		if r.Response != nil {
			r.Response.Request = req
		}
		return r.Response, r.Err
	case <-req.Context().Done():
		return nil, req.Context().Err()
	}
}

// Client returns an *http.Client whose every request is satisfied, in
// order, by the Results sent on results.
func Client(results <-chan Result) *http.Client {
	return &http.Client{Transport: channelTransport{results}}
}
