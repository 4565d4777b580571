// Package strategy implements the three-phase growth/contraction control law
// the Adaptive Controller uses to find the upstream's sustainable
// concurrency: exponential growth (FastGrowth), linear growth (Single), and
// periodic growth (EveryN). Transitions are strictly one-way:
// FastGrowth -> Single -> EveryN.
package strategy

import (
	"github.com/faultrun/server/config"
	"github.com/faultrun/server/outcome"
)

// Kind names the current regime.
type Kind int

const (
	// FastGrowth doubles max on every success and halves it on the first
	// 429 (above RequestsIncreaseThreshold it adds or subtracts 50
	// instead). Every newly dispatched run starts here.
	FastGrowth Kind = iota
	// Single grows max by one on every success.
	Single
	// EveryN grows max by one every Threshold successes.
	EveryN
)

func (k Kind) String() string {
	switch k {
	case FastGrowth:
		return "FastGrowth"
	case Single:
		return "Single"
	case EveryN:
		return "EveryN"
	default:
		return "Unknown"
	}
}

// State is the controller's strategy state. Count and Threshold are only
// meaningful when Kind == EveryN.
type State struct {
	Kind      Kind
	Count     uint32
	Threshold uint32
}

// New returns the initial strategy state for a freshly started run.
func New() State {
	return State{Kind: FastGrowth}
}

// decrementFloor1 subtracts one from max, never going below 1.
func decrementFloor1(max uint32) uint32 {
	if max <= 1 {
		return 1
	}
	return max - 1
}

// UpdateOnSuccess applies update_count: the success-side transition of the
// control law. It returns the new ceiling and strategy state.
func UpdateOnSuccess(max uint32, st State) (uint32, State) {
	switch st.Kind {
	case FastGrowth:
		return increaseMax(max), st

	case Single:
		return max + 1, st

	case EveryN:
		count := st.Count + 1
		if count == st.Threshold {
			return max + 1, State{Kind: EveryN, Count: 0, Threshold: st.Threshold}
		}
		return max, State{Kind: EveryN, Count: count, Threshold: st.Threshold}

	default:
		return max, st
	}
}

// increaseMax implements FastGrowth's exponential-then-additive growth.
func increaseMax(max uint32) uint32 {
	if max > config.RequestsIncreaseThreshold {
		return max + config.RequestsIncreaseThreshold
	}
	return max * 2
}

// decreaseMax implements FastGrowth's halving-then-additive contraction,
// used only on the FastGrowth -> Single transition.
func decreaseMax(max uint32) uint32 {
	if max > config.RequestsIncreaseThreshold {
		return max - config.RequestsIncreaseThreshold
	}
	if max == 1 {
		return 1
	}
	return max / 2
}

// ReduceOnThrottle applies reduce_by_strategy: the 429-side transition of
// the control law, parametrised by the version tag the throttled request
// carried. The version tag is what lets a stale FastGrowth-era 429,
// received after the strategy has already moved to Single, avoid
// triggering the Single -> EveryN transition meant for Single's own
// straggling requests.
func ReduceOnThrottle(max uint32, st State, v outcome.Version) (uint32, State) {
	switch st.Kind {
	case FastGrowth:
		// Outcomes dispatched under FastGrowth are always First; the
		// version parameter is not consulted here, matching the
		// source's one-shot transition out of this regime.
		return decreaseMax(max), State{Kind: Single}

	case Single:
		if v == outcome.First {
			return decrementFloor1(max), st
		}
		return decrementFloor1(max), State{Kind: EveryN, Count: 0, Threshold: 2}

	case EveryN:
		threshold := st.Threshold
		if threshold < config.EveryNThreshold {
			threshold++
		}
		return decrementFloor1(max), State{Kind: EveryN, Count: 0, Threshold: threshold}

	default:
		return max, st
	}
}
