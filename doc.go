// Package tbucket provides a lock-free token-bucket core intended as the
// building block of a high-throughput rate limiter, e.g. in front of a
// messaging broker.
//
// The central type is [Bucket], which answers two questions under heavy
// concurrent access: "subtract N tokens" ([Bucket.ConsumeTokens], the hot
// path) and "how long until the bucket is usable again"
// ([Bucket.CalculateThrottlingDuration], the cold path). The hot path never
// contends on a single memory location; the cold path forces a coherent
// reconciliation before answering.
//
// Buckets are constructed with [Builder] (a constant rate) or
// [DynamicBuilder] (a rate re-evaluated on every reconciliation). A
// [Registry] keys many buckets by caller identity for services that need one
// bucket per producer, connection, or topic.
package tbucket
