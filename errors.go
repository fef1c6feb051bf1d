package tbucket

// ---------------------------------------------------------------------------
// BucketError interface and sentinel errors
// ---------------------------------------------------------------------------

// BucketError is implemented by every sentinel error this package produces.
// It lets callers distinguish bucket precondition/configuration failures
// from errors returned by their own code using [errors.As].
type BucketError interface {
	error
	IsBucketError() bool
}

// bucketError is the concrete type backing all sentinel errors.
type bucketError string

func (e bucketError) Error() string       { return string(e) }
func (e bucketError) IsBucketError() bool { return true }

// Sentinel errors.
var (
	// ErrNegativeConsume is returned by ConsumeTokens and
	// ConsumeTokensAndCheckIfContainsTokens when n is negative. It is a
	// precondition failure: the bucket's state is left unchanged.
	ErrNegativeConsume error = bucketError("tbucket: n must be >= 0")

	// ErrRateRequired is returned by a builder's Build method when no rate
	// was configured.
	ErrRateRequired error = bucketError("tbucket: rate is required")

	// ErrRateMustBePositive is returned when a configured (or supplied, for
	// DynamicRate) rate is zero or negative.
	ErrRateMustBePositive error = bucketError("tbucket: rate must be > 0")

	// ErrRatePeriodMustBePositive is returned when ratePeriodNanos is zero
	// or negative.
	ErrRatePeriodMustBePositive error = bucketError("tbucket: rate period must be > 0")

	// ErrCapacityMustBePositive is returned when capacity resolves to zero
	// or negative.
	ErrCapacityMustBePositive error = bucketError("tbucket: capacity must be > 0")

	// ErrResolutionMustNotBeNegative is returned when resolutionNanos < 0.
	// Zero is valid (it selects strict, unbatched mode).
	ErrResolutionMustNotBeNegative error = bucketError("tbucket: resolution must be >= 0")

	// ErrUnknownBucket is returned by Registry lookups performed with
	// GetExisting for a key that has no bucket yet.
	ErrUnknownBucket error = bucketError("tbucket: no bucket registered for key")
)
