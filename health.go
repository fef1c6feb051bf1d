package tbucket

// BucketStatus is a point-in-time snapshot of one bucket's fill state,
// produced without forcing network or file I/O. It is meant for in-process
// status surfaces (metrics exporters, admin endpoints callers build
// themselves) — this package deliberately stops short of shipping its own
// HTTP handler; see DESIGN.md for why.
type BucketStatus struct {
	// Key is the registry key this bucket was looked up under.
	Key string `json:"key"`
	// Tokens is the best-effort current balance (Tokens(false); does not
	// force a reconciliation).
	Tokens int64 `json:"tokens"`
	// Capacity is the bucket's current capacity.
	Capacity int64 `json:"capacity"`
	// Saturated is true when Tokens <= 0, i.e. the bucket would currently
	// throttle a consumer.
	Saturated bool `json:"saturated"`
}

// bucketStatus builds a BucketStatus for b under the given key without
// forcing a reconciliation.
func bucketStatus(key string, b *Bucket) BucketStatus {
	tokens := b.Tokens(false)
	return BucketStatus{
		Key:       key,
		Tokens:    tokens,
		Capacity:  b.GetCapacity(),
		Saturated: tokens <= 0,
	}
}
