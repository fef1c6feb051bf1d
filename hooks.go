package tbucket

import "time"

// Hooks holds optional callback functions for bucket lifecycle events. All
// fields are nil by default; callers set only the hooks they care about.
// Once passed to a builder, a Hooks value must not be mutated — emit methods
// read the function fields without synchronisation, which is safe as long as
// the struct is read-only after construction. A nil *Hooks is valid and
// fires nothing.
//
// Pattern: Observer — decouples reconciliation/election events from
// consumers (logging, metrics) without the bucket knowing about observers.
type Hooks struct {
	// OnElectionWon fires when a caller wins the CAS election and performs
	// the tick's reconciliation commit.
	OnElectionWon func()
	// OnElectionLost fires when a caller loses the election and instead
	// adds its consumption into the distributed adder.
	OnElectionLost func()
	// OnReconciled fires after every committed reconciliation (including
	// strict-mode and forced ones), reporting the post-commit token count,
	// the tokens produced by this commit, and the tokens drained from the
	// distributed adder.
	OnReconciled func(tokensAfter, produced, drained int64)
	// OnThrottlingComputed fires at the end of every
	// CalculateThrottlingDuration call with the computed wait duration.
	OnThrottlingComputed func(d time.Duration)
	// OnClockTicked fires on a GranularClock's background sampler every
	// time it refreshes the cached coarse value.
	OnClockTicked func()
	// OnClockClosed fires exactly once when a GranularClock is closed.
	OnClockClosed func()
}

func (h *Hooks) emitElectionWon() {
	if h != nil && h.OnElectionWon != nil {
		h.OnElectionWon()
	}
}

func (h *Hooks) emitElectionLost() {
	if h != nil && h.OnElectionLost != nil {
		h.OnElectionLost()
	}
}

func (h *Hooks) emitReconciled(tokensAfter, produced, drained int64) {
	if h != nil && h.OnReconciled != nil {
		h.OnReconciled(tokensAfter, produced, drained)
	}
}

func (h *Hooks) emitThrottlingComputed(d time.Duration) {
	if h != nil && h.OnThrottlingComputed != nil {
		h.OnThrottlingComputed(d)
	}
}

func (h *Hooks) emitClockTicked() {
	if h != nil && h.OnClockTicked != nil {
		h.OnClockTicked()
	}
}

func (h *Hooks) emitClockClosed() {
	if h != nil && h.OnClockClosed != nil {
		h.OnClockClosed()
	}
}
