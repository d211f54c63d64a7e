// Package cache provides a (topic,key)-indexed cache store with soft/hard
// TTLs, negative caching, and per-key single-flight coalescing.
//
// Most Govee API calls are expensive (network round trips against rate
// limited services) but the results change slowly. Callers describe the
// freshness they need with Options and supply a producer function; the
// store returns a cached value when one is fresh enough, otherwise it runs
// the producer — making sure only one producer is ever in flight per key —
// and caches whatever it returns.
//
// An in-memory LRU (github.com/bluele/gcache) fronts a sqlite-backed L2 so
// hot keys never touch disk, while the sqlite table survives process
// restarts.
package cache
