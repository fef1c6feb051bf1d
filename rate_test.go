package tbucket

import "testing"

func TestFinalRateReadsConstants(t *testing.T) {
	r := NewFinalRate(10, 1_000_000_000, 100, 1)

	if got := r.Rate(); got != 10 {
		t.Fatalf("Rate() = %d, want 10", got)
	}
	if got := r.RatePeriodNanos(); got != 1_000_000_000 {
		t.Fatalf("RatePeriodNanos() = %d, want 1e9", got)
	}
	if got := r.Capacity(); got != 100 {
		t.Fatalf("Capacity() = %d, want 100", got)
	}
	if got := r.TargetAmountAfterThrottling(); got != 1 {
		t.Fatalf("TargetAmountAfterThrottling() = %d, want 1", got)
	}
}

func TestDynamicRateReevaluatesSuppliers(t *testing.T) {
	rate := int64(10)
	r := NewDynamicRate(func() int64 { return rate }, nil, 2.0, 0.1)

	if got := r.Rate(); got != 10 {
		t.Fatalf("Rate() = %d, want 10", got)
	}
	if got := r.Capacity(); got != 20 {
		t.Fatalf("Capacity() = %d, want 20 (rate*capacityFactor)", got)
	}
	if got := r.TargetAmountAfterThrottling(); got != 1 {
		t.Fatalf("TargetAmountAfterThrottling() = %d, want 1 (rate*targetFillFactor)", got)
	}

	rate = 20
	if got := r.Capacity(); got != 40 {
		t.Fatalf("Capacity() after rate change = %d, want 40", got)
	}
}

func TestDynamicRateDefaultRatePeriodIsOneSecond(t *testing.T) {
	r := NewDynamicRate(func() int64 { return 10 }, nil, 1.0, 1.0)
	if got := r.RatePeriodNanos(); got != 1_000_000_000 {
		t.Fatalf("RatePeriodNanos() = %d, want 1e9", got)
	}
}
