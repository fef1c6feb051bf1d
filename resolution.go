package tbucket

import "sync/atomic"

// defaultResolutionNanos is the process-wide default reconciliation tick
// used by [Builder] and [DynamicBuilder] when WithResolution is not
// supplied. It is the only package-level setting that can be changed and
// restored; the other package-level state is the once-initialized
// [DefaultRegistry] and [RealClock]'s start time.
var defaultResolutionNanos atomic.Int64

func init() {
	defaultResolutionNanos.Store(int64(defaultResolution))
}

const defaultResolution = 16_000_000 // 16ms, in nanoseconds

// DefaultResolutionNanos returns the process-wide default resolution
// currently in effect.
func DefaultResolutionNanos() int64 {
	return defaultResolutionNanos.Load()
}

// SetDefaultResolutionNanosForTesting overrides the process-wide default
// resolution used by builders that don't specify one explicitly, and
// returns a closure that restores the previous value.
//
// This exists solely so test harnesses can force strict (resolutionNanos =
// 0) mode without threading a builder option through every construction
// site. It is documented as test-only: production code should configure
// resolution per-bucket via WithResolution, not through this global.
func SetDefaultResolutionNanosForTesting(nanos int64) (restore func()) {
	prev := defaultResolutionNanos.Swap(nanos)
	return func() {
		defaultResolutionNanos.Store(prev)
	}
}
