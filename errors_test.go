package tbucket

import "testing"

func TestSentinelErrorsImplementBucketError(t *testing.T) {
	sentinels := []error{
		ErrNegativeConsume,
		ErrRateRequired,
		ErrRateMustBePositive,
		ErrRatePeriodMustBePositive,
		ErrCapacityMustBePositive,
		ErrResolutionMustNotBeNegative,
		ErrUnknownBucket,
	}

	for _, err := range sentinels {
		be, ok := err.(BucketError)
		if !ok {
			t.Fatalf("%v does not implement BucketError", err)
		}
		if !be.IsBucketError() {
			t.Fatalf("%v.IsBucketError() = false, want true", err)
		}
		if be.Error() == "" {
			t.Fatalf("%v.Error() is empty", err)
		}
	}
}
