package tbucket

import (
	"sync"
	"sync/atomic"
	"time"
)

// ---------------------------------------------------------------------------
// syncMapCache — dependency-free default Cache[string, *Bucket]
// ---------------------------------------------------------------------------

// syncMapCache is a [Cache] backed by sync.Map. It ignores TTL: buckets
// registered through it live until explicitly deleted or the registry is
// discarded. Used as the [Registry] default when no ristretto or otter
// adapter is supplied.
type syncMapCache[K comparable, V any] struct {
	m sync.Map
}

func newSyncMapCache[K comparable, V any]() *syncMapCache[K, V] {
	return &syncMapCache[K, V]{}
}

func (c *syncMapCache[K, V]) Get(key K) (V, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

func (c *syncMapCache[K, V]) Set(key K, value V, _ time.Duration) {
	c.m.Store(key, value)
}

func (c *syncMapCache[K, V]) Delete(key K) {
	c.m.Delete(key)
}

// ---------------------------------------------------------------------------
// Registry — keyed bucket lookup/creation
// ---------------------------------------------------------------------------

// Registry maps a caller identity (e.g. a producer ID, connection ID, or
// topic name) to a lazily-constructed [Bucket]. Every key shares the same
// builder template: the same rate, capacity, and resolution, just
// independent state.
//
// Construction is lazy and keyed: the first caller for a given key builds
// it via factory, every caller after that shares the same instance.
type Registry struct {
	factory func() (*Bucket, error)
	cache   Cache[string, *Bucket]
	ttl     time.Duration

	mu   sync.Mutex
	keys atomic.Pointer[[]string]
}

// NewRegistry creates a Registry that builds a new bucket from factory on
// the first lookup of a given key. If cache is nil, a dependency-free
// sync.Map-backed default is used. ttl is passed through to cache.Set; the
// default cache ignores it.
func NewRegistry(factory func() (*Bucket, error), cache Cache[string, *Bucket], ttl time.Duration) *Registry {
	if cache == nil {
		cache = newSyncMapCache[string, *Bucket]()
	}
	r := &Registry{
		factory: factory,
		cache:   cache,
		ttl:     ttl,
	}
	empty := make([]string, 0)
	r.keys.Store(&empty)
	return r
}

// GetOrCreate returns the bucket registered under key, building and
// registering one via the registry's factory if none exists yet. Concurrent
// callers racing to create the same key may each build a bucket, but only
// one survives in the cache — the others are discarded, matching the
// backing Cache's own Set semantics (last write wins).
func (r *Registry) GetOrCreate(key string) (*Bucket, error) {
	if b, ok := r.cache.Get(key); ok {
		return b, nil
	}

	b, err := r.factory()
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, b, r.ttl)
	r.trackKey(key)

	return b, nil
}

// GetExisting returns the bucket registered under key without creating one.
// It returns [ErrUnknownBucket] if key has no bucket yet (or it has been
// evicted from the backing cache).
func (r *Registry) GetExisting(key string) (*Bucket, error) {
	b, ok := r.cache.Get(key)
	if !ok {
		return nil, ErrUnknownBucket
	}
	return b, nil
}

// Delete removes the bucket registered under key, if any.
func (r *Registry) Delete(key string) {
	r.cache.Delete(key)
}

// trackKey records key in the registry's copy-on-write key list, used by
// Status to enumerate buckets that adapters without their own iteration
// support (e.g. the sync.Map default) cannot otherwise list.
func (r *Registry) trackKey(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := *r.keys.Load()
	for _, k := range old {
		if k == key {
			return
		}
	}

	updated := make([]string, len(old), len(old)+1)
	copy(updated, old)
	updated = append(updated, key)
	r.keys.Store(&updated)
}

// Status returns a [BucketStatus] snapshot for every key this registry has
// ever created a bucket for and that is still present in the backing cache.
// It performs no I/O and never forces a reconciliation.
func (r *Registry) Status() []BucketStatus {
	keys := *r.keys.Load()
	statuses := make([]BucketStatus, 0, len(keys))

	for _, key := range keys {
		b, ok := r.cache.Get(key)
		if !ok {
			continue
		}
		statuses = append(statuses, bucketStatus(key, b))
	}

	return statuses
}

// ---------------------------------------------------------------------------
// DefaultRegistry — package-level global registry singleton
// ---------------------------------------------------------------------------

var (
	defaultRegistryOnce sync.Once
	defaultRegistryVal  *Registry
	defaultRegistryFn   func() (*Bucket, error)
)

// DefaultRegistry returns the package-level global registry, creating it on
// first call from factory. Subsequent calls ignore factory and return the
// registry created on the first call — callers that need independent
// registries should use [NewRegistry] directly instead.
func DefaultRegistry(factory func() (*Bucket, error)) *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistryFn = factory
		defaultRegistryVal = NewRegistry(defaultRegistryFn, nil, 0)
	})
	return defaultRegistryVal
}
