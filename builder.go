package tbucket

// ---------------------------------------------------------------------------
// Builder — FinalRate construction
// ---------------------------------------------------------------------------

// Builder constructs a [Bucket] backed by a [FinalRate] (constant
// configuration). Use [NewBuilder] with functional options, then call Build.
//
// Each With* returns a BuilderOption that mutates a private setup struct;
// validation and defaulting happen once, in Build.
type Builder struct {
	rate            int64
	rateSet         bool
	capacity        int64
	capacitySet     bool
	initialTokens   int64
	initialSet      bool
	ratePeriodNanos int64
	resolutionNanos int64
	resolutionSet   bool
	clock           Clock
	hooks           *Hooks
}

// BuilderOption configures a [Builder].
type BuilderOption func(*Builder)

// NewBuilder creates a [Builder] with defaults pending: ratePeriodNanos = 1
// second, resolutionNanos = [DefaultResolutionNanos], clock = [RealClock].
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		ratePeriodNanos: 1e9,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithRate sets the token production rate. Required.
func WithRate(rate int64) BuilderOption {
	return func(b *Builder) {
		b.rate = rate
		b.rateSet = true
	}
}

// WithCapacity sets the maximum stored tokens. Defaults to the configured
// rate.
func WithCapacity(capacity int64) BuilderOption {
	return func(b *Builder) {
		b.capacity = capacity
		b.capacitySet = true
	}
}

// WithInitialTokens sets the token count at construction. Defaults to the
// configured rate.
func WithInitialTokens(n int64) BuilderOption {
	return func(b *Builder) {
		b.initialTokens = n
		b.initialSet = true
	}
}

// WithRatePeriod sets the period, in nanoseconds, over which Rate tokens are
// produced. Defaults to one second.
func WithRatePeriod(nanos int64) BuilderOption {
	return func(b *Builder) {
		b.ratePeriodNanos = nanos
	}
}

// WithResolution sets the reconciliation tick, in nanoseconds. Zero selects
// strict (unbatched) mode. Defaults to [DefaultResolutionNanos].
func WithResolution(nanos int64) BuilderOption {
	return func(b *Builder) {
		b.resolutionNanos = nanos
		b.resolutionSet = true
	}
}

// WithClock sets the monotonic clock source. Defaults to [RealClock].
func WithClock(c Clock) BuilderOption {
	return func(b *Builder) {
		b.clock = c
	}
}

// WithHooks attaches lifecycle observer callbacks.
func WithHooks(h *Hooks) BuilderOption {
	return func(b *Builder) {
		b.hooks = h
	}
}

// Build validates the accumulated configuration and constructs a [Bucket].
func (b *Builder) Build() (*Bucket, error) {
	if !b.rateSet {
		return nil, ErrRateRequired
	}
	if b.rate <= 0 {
		return nil, ErrRateMustBePositive
	}
	if b.ratePeriodNanos <= 0 {
		return nil, ErrRatePeriodMustBePositive
	}

	capacity := b.rate
	if b.capacitySet {
		capacity = b.capacity
	}
	if capacity <= 0 {
		return nil, ErrCapacityMustBePositive
	}

	initial := b.rate
	if b.initialSet {
		initial = b.initialTokens
	}

	resolution := DefaultResolutionNanos()
	if b.resolutionSet {
		resolution = b.resolutionNanos
	}
	if resolution < 0 {
		return nil, ErrResolutionMustNotBeNegative
	}

	target := maxInt64(1, resolution*b.rate/b.ratePeriodNanos)

	clock := b.clock
	if clock == nil {
		clock = RealClock{}
	}

	rate := NewFinalRate(b.rate, b.ratePeriodNanos, capacity, target)

	return newBucket(rate, clock, b.hooks, resolution, initial), nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// ---------------------------------------------------------------------------
// DynamicBuilder — DynamicRate construction
// ---------------------------------------------------------------------------

// DynamicBuilder constructs a [Bucket] backed by a [DynamicRate] (suppliers
// re-evaluated on every reconciliation).
type DynamicBuilder struct {
	rateFn            func() int64
	ratePeriodNanosFn func() int64

	capacityFactor      float64
	capacityFactorSet   bool
	initialFillFactor   float64
	initialFillFactorSet bool
	targetFillFactor     float64
	targetFillFactorSet  bool

	resolutionNanos int64
	resolutionSet   bool
	clock           Clock
	hooks           *Hooks
}

// DynamicBuilderOption configures a [DynamicBuilder].
type DynamicBuilderOption func(*DynamicBuilder)

// NewDynamicBuilder creates a [DynamicBuilder] with capacityFactor,
// initialFillFactor defaulting to 1.0 and targetFillFactorAfterThrottling
// defaulting to 0.01.
func NewDynamicBuilder(opts ...DynamicBuilderOption) *DynamicBuilder {
	d := &DynamicBuilder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithRateFunc sets the rate supplier. Required.
func WithRateFunc(fn func() int64) DynamicBuilderOption {
	return func(d *DynamicBuilder) {
		d.rateFn = fn
	}
}

// WithRatePeriodFunc sets the rate-period supplier. Defaults to a constant
// one second.
func WithRatePeriodFunc(fn func() int64) DynamicBuilderOption {
	return func(d *DynamicBuilder) {
		d.ratePeriodNanosFn = fn
	}
}

// WithCapacityFactor sets capacity = rate * factor. Defaults to 1.0.
func WithCapacityFactor(factor float64) DynamicBuilderOption {
	return func(d *DynamicBuilder) {
		d.capacityFactor = factor
		d.capacityFactorSet = true
	}
}

// WithInitialFillFactor sets initialTokens = rate * factor. Defaults to 1.0.
func WithInitialFillFactor(factor float64) DynamicBuilderOption {
	return func(d *DynamicBuilder) {
		d.initialFillFactor = factor
		d.initialFillFactorSet = true
	}
}

// WithTargetFillFactorAfterThrottling sets target = rate * factor. Defaults
// to 0.01.
func WithTargetFillFactorAfterThrottling(factor float64) DynamicBuilderOption {
	return func(d *DynamicBuilder) {
		d.targetFillFactor = factor
		d.targetFillFactorSet = true
	}
}

// WithDynamicResolution sets the reconciliation tick, in nanoseconds. Zero
// selects strict mode. Defaults to [DefaultResolutionNanos].
func WithDynamicResolution(nanos int64) DynamicBuilderOption {
	return func(d *DynamicBuilder) {
		d.resolutionNanos = nanos
		d.resolutionSet = true
	}
}

// WithDynamicClock sets the monotonic clock source. Defaults to [RealClock].
func WithDynamicClock(c Clock) DynamicBuilderOption {
	return func(d *DynamicBuilder) {
		d.clock = c
	}
}

// WithDynamicHooks attaches lifecycle observer callbacks.
func WithDynamicHooks(h *Hooks) DynamicBuilderOption {
	return func(d *DynamicBuilder) {
		d.hooks = h
	}
}

// Build validates the accumulated configuration and constructs a [Bucket].
// Capacity and target amount are not fixed: [DynamicRate] recomputes them
// from the rate supplier on every call. Initial tokens are computed once,
// here, from the supplier's current rate times the initial fill factor.
func (d *DynamicBuilder) Build() (*Bucket, error) {
	if d.rateFn == nil {
		return nil, ErrRateRequired
	}

	capacityFactor := 1.0
	if d.capacityFactorSet {
		capacityFactor = d.capacityFactor
	}
	initialFillFactor := 1.0
	if d.initialFillFactorSet {
		initialFillFactor = d.initialFillFactor
	}
	targetFillFactor := 0.01
	if d.targetFillFactorSet {
		targetFillFactor = d.targetFillFactor
	}

	if probe := d.rateFn(); probe <= 0 {
		return nil, ErrRateMustBePositive
	}
	if period := (&DynamicRate{rateFn: d.rateFn, ratePeriodNanosFn: d.ratePeriodNanosFn}).RatePeriodNanos(); period <= 0 {
		return nil, ErrRatePeriodMustBePositive
	}

	resolution := DefaultResolutionNanos()
	if d.resolutionSet {
		resolution = d.resolutionNanos
	}
	if resolution < 0 {
		return nil, ErrResolutionMustNotBeNegative
	}

	clock := d.clock
	if clock == nil {
		clock = RealClock{}
	}

	rate := NewDynamicRate(d.rateFn, d.ratePeriodNanosFn, capacityFactor, targetFillFactor)
	initialTokens := int64(float64(d.rateFn()) * initialFillFactor)

	return newBucket(rate, clock, d.hooks, resolution, initialTokens), nil
}
