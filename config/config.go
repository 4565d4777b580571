// Package config holds the tunables for the adaptive concurrency controller
// and the small amount of deployment configuration the service needs.
package config

import (
	"flag"
	"time"
)

// Algorithm constants. These are part of the control law's contract, not
// deployment configuration, so unlike the flags below they are not
// adjustable at runtime.
const (
	// RequestsStartCount is the initial concurrency ceiling for a new run.
	RequestsStartCount = 5

	// RequestsIncreaseThreshold is the FastGrowth/decrease_max cutover: above
	// it, growth and contraction are additive (+/- 50); at or below it,
	// they are multiplicative (doubling) or halving.
	RequestsIncreaseThreshold = 50

	// EveryNThreshold is the maximum value EveryN.threshold may saturate at.
	EveryNThreshold = 20

	// ResultChannelCapacity is the Result Channel's buffer size.
	ResultChannelCapacity = 100
)

var (
	// ListenAddr is the address the HTTP service listens on.
	ListenAddr = flag.String("listen", "0.0.0.0:3030", "address to listen on")

	// UpstreamURL is the throttling upstream workers issue GETs against.
	UpstreamURL = flag.String("upstream", "http://faulty-server-htz-nbg1-1.wvservices.exchange:8080", "upstream URL polled by workers")

	// MaxBodyBytes bounds the size of a POST /runs request body.
	MaxBodyBytes = flag.Int64("max-body-bytes", 1024, "maximum accepted POST body size, in bytes")

	// MetricsAddr, if non-empty, starts a second listener serving only
	// /metrics, mirroring cmd/etl_worker's split metrics port. When empty,
	// /metrics is served on ListenAddr instead.
	MetricsAddr = flag.String("metrics-addr", "", "optional separate address to serve /metrics on")

	// DialTimeout and RequestTimeout bound the per-worker HTTP client,
	// matching the connection discipline of the original requester.
	DialTimeout    = flag.Duration("dial-timeout", 30*time.Second, "upstream connect timeout")
	RequestTimeout = flag.Duration("request-timeout", 30*time.Second, "upstream request timeout")
)
