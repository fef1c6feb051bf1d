package tbucket

import (
	"sync/atomic"
	"time"
)

// Bucket is a lock-free token-bucket counter. The hot path
// ([Bucket.ConsumeTokens]) never contends on a single memory location under
// normal operation: at most one caller per resolution tick performs the
// authoritative commit (the "election"), every other concurrent caller folds
// its consumption into a distributed adder and returns immediately. Cold
// paths ([Bucket.CalculateThrottlingDuration], [Bucket.ContainsTokens] with
// force) always force a commit before reading.
//
// A Bucket must be constructed with [Builder] or [DynamicBuilder]; the zero
// value is not usable.
type Bucket struct {
	rate  RateSource
	clock Clock
	hooks *Hooks

	resolutionNanos int64

	tokens         atomic.Int64
	lastNanos      atomic.Int64
	lastIncrement  atomic.Int64
	remainderNanos atomic.Int64
	pending        *distributedAdder
}

func newBucket(rate RateSource, clock Clock, hooks *Hooks, resolutionNanos, initialTokens int64) *Bucket {
	b := &Bucket{
		rate:            rate,
		clock:           clock,
		hooks:           hooks,
		resolutionNanos: resolutionNanos,
		pending:         newDistributedAdderForGOMAXPROCS(),
	}
	b.tokens.Store(initialTokens)
	// Establish a real baseline immediately so the first user-triggered
	// reconciliation measures elapsed time from construction, not from the
	// lastNanos==0 "never reconciled" sentinel (which would otherwise
	// consume the bucket's very first commit just setting the baseline).
	b.lastNanos.Store(clock.Nanos(true))
	return b
}

// ConsumeTokens subtracts n tokens from the bucket. n must be >= 0.
func (b *Bucket) ConsumeTokens(n int64) error {
	if n < 0 {
		return ErrNegativeConsume
	}
	b.reconcileOrAdd(b.clock.Nanos(false), n, false)
	return nil
}

// ConsumeTokensAndCheckIfContainsTokens subtracts n tokens and reports
// whether the bucket likely still holds tokens afterwards. When the caller
// is not elected to reconcile this tick, the answer is a best-effort
// approximation computed from the current authoritative balance, ignoring
// any consumption still sitting in the distributed adder — definitive
// answers require [Bucket.ContainsTokens] with force, or
// [Bucket.CalculateThrottlingDuration].
func (b *Bucket) ConsumeTokensAndCheckIfContainsTokens(n int64) (bool, error) {
	if n < 0 {
		return false, ErrNegativeConsume
	}
	post, ok := b.reconcileOrAdd(b.clock.Nanos(false), n, false)
	if ok {
		return post > 0, nil
	}
	return b.tokens.Load()-n > 0, nil
}

// ContainsTokens reports whether the bucket likely holds tokens. When force
// is true, a reconciliation is always performed first and the answer is
// definitive; otherwise the call opportunistically reconciles only if a
// tick boundary has been crossed, and falls back to a best-effort read of
// the current balance.
func (b *Bucket) ContainsTokens(force bool) bool {
	return b.Tokens(force) > 0
}

// GetTokens returns the current token balance, reconciling opportunistically
// (equivalent to Tokens(false)).
func (b *Bucket) GetTokens() int64 {
	return b.Tokens(false)
}

// Tokens returns the current token balance. When force is true, a
// reconciliation is always performed first.
func (b *Bucket) Tokens(force bool) int64 {
	post, ok := b.reconcileOrAdd(b.clock.Nanos(false), 0, force)
	if ok {
		return post
	}
	return b.tokens.Load()
}

// CalculateThrottlingDuration always forces a reconciliation and returns how
// long a throttled caller must wait before the bucket again holds at least
// TargetAmountAfterThrottling tokens. It returns zero if that level is
// already met or exceeded.
func (b *Bucket) CalculateThrottlingDuration() time.Duration {
	post, _ := b.reconcileOrAdd(b.clock.Nanos(false), 0, true)

	target := b.rate.TargetAmountAfterThrottling()
	deficit := target - post
	if deficit <= 0 {
		b.hooks.emitThrottlingComputed(0)
		return 0
	}

	rate := b.rate.Rate()
	period := b.rate.RatePeriodNanos()
	d := time.Duration(deficit * period / rate)
	b.hooks.emitThrottlingComputed(d)
	return d
}

// GetCapacity returns the bucket's maximum token level, evaluating the rate
// source's supplier for the dynamic variant.
func (b *Bucket) GetCapacity() int64 {
	return b.rate.Capacity()
}

// GetRate returns the bucket's configured production rate, evaluating the
// rate source's supplier for the dynamic variant.
func (b *Bucket) GetRate() int64 {
	return b.rate.Rate()
}

// reconcileOrAdd is the single entry point for both the hot and cold paths.
// It decides whether the calling goroutine is elected to perform this
// tick's reconciliation; losers fold consumed into the distributed adder
// and return ok=false. Winners perform the full commit and return the
// post-commit token balance with ok=true.
func (b *Bucket) reconcileOrAdd(now, consumed int64, force bool) (int64, bool) {
	if !b.elect(now, force) {
		if consumed > 0 {
			b.pending.Add(consumed)
		}
		b.hooks.emitElectionLost()
		return 0, false
	}

	b.hooks.emitElectionWon()
	return b.commit(now, consumed), true
}

// elect decides whether the calling goroutine performs this tick's
// reconciliation commit.
func (b *Bucket) elect(now int64, force bool) bool {
	if b.resolutionNanos == 0 || force {
		return true
	}

	currentIncrement := now / b.resolutionNanos
	old := b.lastIncrement.Load()
	if currentIncrement <= old {
		return false
	}
	return b.lastIncrement.CompareAndSwap(old, currentIncrement)
}

// commit replaces lastNanos, computes newly produced tokens (carrying
// forward any sub-tick remainder), drains the distributed adder, and
// atomically folds everything into tokens, clamped to capacity before the
// caller's own consumption (and whatever was drained) is subtracted.
func (b *Bucket) commit(now, consumed int64) int64 {
	prevNanos := b.lastNanos.Swap(now)

	var newTokens int64
	if prevNanos != 0 {
		remainder := b.remainderNanos.Swap(0)
		duration := now - prevNanos + remainder

		rate := b.rate.Rate()
		period := b.rate.RatePeriodNanos()

		newTokens = duration * rate / period
		residue := duration - newTokens*period/rate
		if residue > 0 {
			b.remainderNanos.Add(residue)
		}
	}

	drained := b.pending.SumAndReset()
	capacity := b.rate.Capacity()

	for {
		old := b.tokens.Load()
		next := min64(old+newTokens, capacity) - (consumed + drained)
		if b.tokens.CompareAndSwap(old, next) {
			b.hooks.emitReconciled(next, newTokens, drained)
			return next
		}
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
