package tbucket

import "testing"

func TestSetDefaultResolutionNanosForTestingRestores(t *testing.T) {
	orig := DefaultResolutionNanos()

	restore := SetDefaultResolutionNanosForTesting(0)
	if got := DefaultResolutionNanos(); got != 0 {
		t.Fatalf("DefaultResolutionNanos() = %d, want 0", got)
	}

	restore()
	if got := DefaultResolutionNanos(); got != orig {
		t.Fatalf("DefaultResolutionNanos() after restore = %d, want %d", got, orig)
	}
}

func TestBuilderPicksUpOverriddenDefaultResolution(t *testing.T) {
	restore := SetDefaultResolutionNanosForTesting(0)
	defer restore()

	b, err := NewBuilder(WithRate(10)).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if b.resolutionNanos != 0 {
		t.Fatalf("bucket resolutionNanos = %d, want 0 (strict mode)", b.resolutionNanos)
	}
}
