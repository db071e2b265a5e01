// Package cache provides the in-process cache for budgeting API data.
//
// It provides a TTL cache with LRU eviction, stale-while-revalidate
// serving, single-flight deduplication of concurrent loads, and
// deterministic key generation for tool handlers.
package cache
