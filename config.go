package tbucket

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

// bucketConfigFile is the top-level JSON structure for a named set of
// bucket configurations.
type bucketConfigFile struct {
	Buckets map[string]bucketConfigJSON `json:"buckets"`
}

// bucketConfigJSON holds the JSON-decoded configuration for a single named
// bucket. Rate/Capacity/InitialTokens apply to [Builder] (final-rate)
// buckets; Dynamic, when present, marks this entry as a [DynamicBuilder]
// template instead — Rate is then ignored, since a dynamic rate is always
// supplied in code, not in the config file.
type bucketConfigJSON struct {
	Rate          int64           `json:"rate,omitempty"`
	Capacity      int64           `json:"capacity,omitempty"`
	InitialTokens int64           `json:"initial_tokens,omitempty"`
	RatePeriod    string          `json:"rate_period,omitempty"`
	Resolution    string          `json:"resolution,omitempty"`
	Dynamic       *dynamicCfgJSON `json:"dynamic,omitempty"`
}

type dynamicCfgJSON struct {
	CapacityFactor float64 `json:"capacity_factor,omitempty"`
	InitialFactor  float64 `json:"initial_fill_factor,omitempty"`
	TargetFactor   float64 `json:"target_fill_factor_after_throttling,omitempty"`
}

// BucketConfigSet is a collection of named bucket configuration templates
// loaded from JSON. Call [BucketConfigSet.Build] (final-rate entries) or
// [BucketConfigSet.BuildDynamic] (entries with a "dynamic" block) to
// construct an actual [Bucket]; the config set itself holds no bucket
// state.
type BucketConfigSet struct {
	entries map[string]bucketConfigJSON
}

// LoadBucketConfig reads a JSON configuration file holding one or more named
// bucket templates and validates every entry eagerly, so malformed
// configuration surfaces at load time rather than on first use.
//
// Example file:
//
//	{
//	  "buckets": {
//	    "ingest": {"rate": 1000, "rate_period": "1s", "resolution": "16ms"},
//	    "per_tenant": {"dynamic": {"target_fill_factor_after_throttling": 0.05}}
//	  }
//	}
func LoadBucketConfig(path string) (*BucketConfigSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tbucket: read bucket config: %w", err)
	}

	var cfg bucketConfigFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("tbucket: parse bucket config: %w", err)
	}

	for name, bc := range cfg.Buckets {
		opts, err := buildStaticOptions(bc)
		if err != nil {
			return nil, fmt.Errorf("tbucket: bucket %q: %w", name, err)
		}

		// Dynamic entries supply their rate in code, not in the config
		// file, so a full Build() isn't possible until BuildDynamic is
		// called with a rateFn — buildStaticOptions above is all the
		// validation available at load time for them.
		if bc.Dynamic != nil {
			continue
		}

		if _, err := NewBuilder(opts...).Build(); err != nil {
			return nil, fmt.Errorf("tbucket: bucket %q: %w", name, err)
		}
	}

	return &BucketConfigSet{entries: cfg.Buckets}, nil
}

// buildStaticOptions converts a bucketConfigJSON's final-rate fields into
// BuilderOptions, validating durations eagerly. It is also used purely for
// validation at load time, including for dynamic entries (whose only
// static, checkable fields are the resolution duration).
func buildStaticOptions(bc bucketConfigJSON) ([]BuilderOption, error) {
	var opts []BuilderOption

	if bc.Resolution != "" {
		d, err := time.ParseDuration(bc.Resolution)
		if err != nil {
			return nil, fmt.Errorf("resolution: %w", err)
		}
		opts = append(opts, WithResolution(d.Nanoseconds()))
	}

	if bc.Dynamic != nil {
		return opts, nil
	}

	if bc.Rate > 0 {
		opts = append(opts, WithRate(bc.Rate))
	}
	if bc.Capacity > 0 {
		opts = append(opts, WithCapacity(bc.Capacity))
	}
	if bc.InitialTokens > 0 {
		opts = append(opts, WithInitialTokens(bc.InitialTokens))
	}
	if bc.RatePeriod != "" {
		d, err := time.ParseDuration(bc.RatePeriod)
		if err != nil {
			return nil, fmt.Errorf("rate_period: %w", err)
		}
		opts = append(opts, WithRatePeriod(d.Nanoseconds()))
	}

	return opts, nil
}

// Build constructs a final-rate [Bucket] from the named entry, applying
// extraOpts after the config-derived options so callers can override or add
// to them (e.g. WithHooks, WithClock).
func (s *BucketConfigSet) Build(name string, extraOpts ...BuilderOption) (*Bucket, error) {
	bc, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("tbucket: bucket %q not found in config", name)
	}

	opts, err := buildStaticOptions(bc)
	if err != nil {
		return nil, err
	}
	opts = append(opts, extraOpts...)

	return NewBuilder(opts...).Build()
}

// BuildDynamic constructs a [DynamicRate]-backed [Bucket] from the named
// entry's "dynamic" block, using rateFn as the rate supplier (config files
// cannot express a Go function). extraOpts is applied after the
// config-derived factors.
func (s *BucketConfigSet) BuildDynamic(name string, rateFn func() int64, extraOpts ...DynamicBuilderOption) (*Bucket, error) {
	bc, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("tbucket: bucket %q not found in config", name)
	}
	if bc.Dynamic == nil {
		return nil, fmt.Errorf("tbucket: bucket %q has no dynamic block", name)
	}

	var opts []DynamicBuilderOption
	opts = append(opts, WithRateFunc(rateFn))

	if bc.Resolution != "" {
		d, err := time.ParseDuration(bc.Resolution)
		if err != nil {
			return nil, fmt.Errorf("resolution: %w", err)
		}
		opts = append(opts, WithDynamicResolution(d.Nanoseconds()))
	}
	if bc.Dynamic.CapacityFactor > 0 {
		opts = append(opts, WithCapacityFactor(bc.Dynamic.CapacityFactor))
	}
	if bc.Dynamic.InitialFactor > 0 {
		opts = append(opts, WithInitialFillFactor(bc.Dynamic.InitialFactor))
	}
	if bc.Dynamic.TargetFactor > 0 {
		opts = append(opts, WithTargetFillFactorAfterThrottling(bc.Dynamic.TargetFactor))
	}

	opts = append(opts, extraOpts...)

	return NewDynamicBuilder(opts...).Build()
}
