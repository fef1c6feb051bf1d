package tbucket

import (
	"testing"
	"time"
)

func TestBuilderRequiresRate(t *testing.T) {
	_, err := NewBuilder().Build()
	if err != ErrRateRequired {
		t.Fatalf("Build() error = %v, want ErrRateRequired", err)
	}
}

func TestBuilderRejectsNonPositiveRate(t *testing.T) {
	_, err := NewBuilder(WithRate(0)).Build()
	if err != ErrRateMustBePositive {
		t.Fatalf("Build() error = %v, want ErrRateMustBePositive", err)
	}
}

func TestBuilderRejectsNonPositiveRatePeriod(t *testing.T) {
	_, err := NewBuilder(WithRate(10), WithRatePeriod(0)).Build()
	if err != ErrRatePeriodMustBePositive {
		t.Fatalf("Build() error = %v, want ErrRatePeriodMustBePositive", err)
	}
}

func TestBuilderRejectsNonPositiveCapacity(t *testing.T) {
	_, err := NewBuilder(WithRate(10), WithCapacity(0)).Build()
	if err != ErrCapacityMustBePositive {
		t.Fatalf("Build() error = %v, want ErrCapacityMustBePositive", err)
	}
}

func TestBuilderRejectsNegativeResolution(t *testing.T) {
	_, err := NewBuilder(WithRate(10), WithResolution(-1)).Build()
	if err != ErrResolutionMustNotBeNegative {
		t.Fatalf("Build() error = %v, want ErrResolutionMustNotBeNegative", err)
	}
}

func TestBuilderDefaultsCapacityAndInitialTokensToRate(t *testing.T) {
	b, err := NewBuilder(WithRate(42)).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := b.GetCapacity(); got != 42 {
		t.Fatalf("GetCapacity() = %d, want 42", got)
	}
	if got := b.Tokens(true); got != 42 {
		t.Fatalf("initial Tokens() = %d, want 42", got)
	}
}

func TestBuilderDefaultRatePeriodIsOneSecond(t *testing.T) {
	b, err := NewBuilder(WithRate(1)).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := b.rate.RatePeriodNanos(); got != int64(time.Second) {
		t.Fatalf("RatePeriodNanos() = %d, want %d", got, int64(time.Second))
	}
}

func TestBuilderDefaultClockIsRealClock(t *testing.T) {
	b, err := NewBuilder(WithRate(1)).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := b.clock.(RealClock); !ok {
		t.Fatalf("default clock = %T, want RealClock", b.clock)
	}
}

func TestDynamicBuilderRequiresRateFunc(t *testing.T) {
	_, err := NewDynamicBuilder().Build()
	if err != ErrRateRequired {
		t.Fatalf("Build() error = %v, want ErrRateRequired", err)
	}
}

func TestDynamicBuilderRejectsNonPositiveRate(t *testing.T) {
	_, err := NewDynamicBuilder(WithRateFunc(func() int64 { return 0 })).Build()
	if err != ErrRateMustBePositive {
		t.Fatalf("Build() error = %v, want ErrRateMustBePositive", err)
	}
}

func TestDynamicBuilderDefaultFactors(t *testing.T) {
	b, err := NewDynamicBuilder(WithRateFunc(func() int64 { return 50 })).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := b.GetCapacity(); got != 50 {
		t.Fatalf("GetCapacity() = %d, want 50 (capacityFactor defaults to 1.0)", got)
	}
	if got := b.Tokens(true); got != 50 {
		t.Fatalf("initial Tokens() = %d, want 50 (initialFillFactor defaults to 1.0)", got)
	}
	if got := b.rate.TargetAmountAfterThrottling(); got != 0 {
		t.Fatalf("TargetAmountAfterThrottling() = %d, want 0 (50*0.01 truncates to 0)", got)
	}
}

func TestDynamicBuilderAppliesCustomFactors(t *testing.T) {
	b, err := NewDynamicBuilder(
		WithRateFunc(func() int64 { return 100 }),
		WithCapacityFactor(2.0),
		WithInitialFillFactor(0.5),
		WithTargetFillFactorAfterThrottling(0.25),
	).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := b.GetCapacity(); got != 200 {
		t.Fatalf("GetCapacity() = %d, want 200", got)
	}
	if got := b.Tokens(true); got != 50 {
		t.Fatalf("initial Tokens() = %d, want 50", got)
	}
	if got := b.rate.TargetAmountAfterThrottling(); got != 25 {
		t.Fatalf("TargetAmountAfterThrottling() = %d, want 25", got)
	}
}
