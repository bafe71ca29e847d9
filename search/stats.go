package search

import (
	"fmt"
	"time"
)

// Stats are the counters of a single move decision.
type Stats struct {
	Nodes               uint64
	AlphaCuts           uint64
	BetaCuts            uint64
	TTCuts              uint64
	OrderingComparisons uint64
	OrderingEvals       uint64
	FailLow             uint64
	FailHigh            uint64
	// Depth is the deepest completed iteration and Value its root value.
	Depth       int
	Value       float64
	Elapsed     time.Duration
	Interrupted bool
}

func (st Stats) String() string {
	s := fmt.Sprintf("depth %d, value %.2f, %d nodes in %v", st.Depth, st.Value, st.Nodes,
		st.Elapsed.Round(time.Millisecond))
	s += fmt.Sprintf("\ncuts: alpha %d, beta %d, tt %d", st.AlphaCuts, st.BetaCuts, st.TTCuts)
	s += fmt.Sprintf("\nordering: %d comparisons, %d evaluations", st.OrderingComparisons, st.OrderingEvals)
	s += fmt.Sprintf("\naspiration re-searches: %d low, %d high", st.FailLow, st.FailHigh)
	if st.Interrupted {
		s += "\n(interrupted)"
	}
	return s
}
