package tbucket

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

type (
	// Cache is the pluggable backing store a [Registry] uses to hold its
	// keyed buckets. TTL is advisory: a bucket is a cheap, re-creatable
	// object, so an adapter is free to evict it under memory pressure or
	// idleness without any correctness consequence — the registry simply
	// builds a fresh one on the next lookup.
	Cache[K comparable, V any] interface {
		// Get retrieves a cached value by key. Returns the value and true if
		// found.
		Get(key K) (V, bool)
		// Set stores a value with the given TTL.
		Set(key K, value V, ttl time.Duration)
		// Delete removes a cached entry by key.
		Delete(key K)
	}

	// CacheConfig holds configuration for a [Registry]'s backing [Cache].
	CacheConfig struct {
		// Options holds adapter-specific settings as read from the config
		// file. Neither the ristretto nor the otter adapter reads it.
		Options map[string]any
		// TTL is the ttl value read from the config file. The adapter
		// constructors do not read it; each entry's TTL is the one passed to
		// Cache.Set (for a [Registry], the ttl given to [NewRegistry]).
		TTL time.Duration
		// MaxSize is the maximum number of buckets the cache can hold before
		// the adapter evicts entries under its library's own policy.
		MaxSize int
	}

	cacheConfigFile struct {
		Caches map[string]cacheConfigJSON `json:"caches"`
	}

	cacheConfigJSON struct {
		Options map[string]any `json:"options,omitempty"`
		TTL     string         `json:"ttl"`
		MaxSize int            `json:"max_size"`
	}
)

// LoadCacheConfig reads a JSON configuration file and returns the
// [CacheConfig] for the named cache entry, to be passed to a ristretto or
// otter adapter constructor.
func LoadCacheConfig(path, name string) (CacheConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CacheConfig{}, fmt.Errorf("tbucket: read cache config: %w", err)
	}

	var cfg cacheConfigFile

	if err = json.Unmarshal(data, &cfg); err != nil {
		return CacheConfig{}, fmt.Errorf("tbucket: parse cache config: %w", err)
	}

	raw, ok := cfg.Caches[name]
	if !ok {
		return CacheConfig{}, fmt.Errorf(
			"tbucket: cache %q not found in config",
			name,
		)
	}

	cc := CacheConfig{
		Options: raw.Options,
		MaxSize: raw.MaxSize,
	}

	if raw.TTL != "" {
		ttl, ttlErr := time.ParseDuration(raw.TTL)
		if ttlErr != nil {
			return CacheConfig{}, fmt.Errorf(
				"tbucket: cache %q: ttl: %w",
				name,
				ttlErr,
			)
		}

		cc.TTL = ttl
	}

	return cc, nil
}
