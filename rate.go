package tbucket

// RateSource is the variant-neutral configuration surface a [Bucket] reads
// from on every reconciliation. [FinalRate] answers from immutable fields;
// [DynamicRate] re-evaluates caller-supplied functions on every call so
// that a bucket's rate can change while it runs.
//
// Pattern: small tagged-variant dispatch (two concrete implementations,
// selected at construction time) rather than a reflection-based or
// virtual-heavy hierarchy — there is no third variant expected, so an
// interface with two implementers is preferred over a sum-type emulation.
type RateSource interface {
	// Rate returns tokens produced per RatePeriodNanos.
	Rate() int64
	// RatePeriodNanos returns the period over which Rate tokens are produced.
	RatePeriodNanos() int64
	// Capacity returns the maximum number of tokens the bucket can hold.
	Capacity() int64
	// TargetAmountAfterThrottling returns the token level a throttled caller
	// must reach before CalculateThrottlingDuration reports zero.
	TargetAmountAfterThrottling() int64
}

// FinalRate is a [RateSource] backed by constants fixed at construction; no
// function is invoked per call.
type FinalRate struct {
	rate                        int64
	ratePeriodNanos             int64
	capacity                    int64
	targetAmountAfterThrottling int64
}

// NewFinalRate builds a [FinalRate]. target is the pre-computed
// targetAmountAfterThrottling (see [Builder], which derives it as
// max(1, resolutionNanos*rate/ratePeriodNanos)).
func NewFinalRate(rate, ratePeriodNanos, capacity, target int64) *FinalRate {
	return &FinalRate{
		rate:                        rate,
		ratePeriodNanos:             ratePeriodNanos,
		capacity:                    capacity,
		targetAmountAfterThrottling: target,
	}
}

func (f *FinalRate) Rate() int64                        { return f.rate }
func (f *FinalRate) RatePeriodNanos() int64              { return f.ratePeriodNanos }
func (f *FinalRate) Capacity() int64                     { return f.capacity }
func (f *FinalRate) TargetAmountAfterThrottling() int64  { return f.targetAmountAfterThrottling }

// DynamicRate is a [RateSource] backed by caller-supplied functions,
// re-evaluated on every reconciliation. Any uncommitted time interval is
// charged at the rate effective at the moment of reconciliation, not at the
// moment consumeTokens was called — a trade of perfect integration accuracy
// for lock-freedom.
type DynamicRate struct {
	rateFn             func() int64
	ratePeriodNanosFn  func() int64
	capacityFactor     float64
	targetFillFactor   float64
}

// NewDynamicRate builds a [DynamicRate]. ratePeriodNanosFn may be nil, in
// which case RatePeriodNanos always returns 1 second in nanoseconds.
func NewDynamicRate(rateFn func() int64, ratePeriodNanosFn func() int64, capacityFactor, targetFillFactorAfterThrottling float64) *DynamicRate {
	return &DynamicRate{
		rateFn:            rateFn,
		ratePeriodNanosFn: ratePeriodNanosFn,
		capacityFactor:    capacityFactor,
		targetFillFactor:  targetFillFactorAfterThrottling,
	}
}

func (d *DynamicRate) Rate() int64 {
	return d.rateFn()
}

func (d *DynamicRate) RatePeriodNanos() int64 {
	if d.ratePeriodNanosFn == nil {
		return int64(1e9)
	}
	return d.ratePeriodNanosFn()
}

func (d *DynamicRate) Capacity() int64 {
	return int64(float64(d.Rate()) * d.capacityFactor)
}

func (d *DynamicRate) TargetAmountAfterThrottling() int64 {
	return int64(float64(d.Rate()) * d.targetFillFactor)
}
