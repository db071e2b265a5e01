package cache

import "time"

// Default configuration values, used when the corresponding environment
// settings are missing or invalid.
const (
	DefaultMaxEntries   = 500
	DefaultTTL          = 5 * time.Minute
	DefaultStaleWindow  = 30 * time.Second
)

// Recommended TTLs per logical data category. This table is policy data for
// callers choosing a TTL; the cache does not enforce it. Slow-moving data
// (budget metadata, categories) tolerates longer TTLs than account balances
// or recent transactions.
var categoryTTLs = map[string]time.Duration{
	"budgets":      time.Hour,
	"accounts":     5 * time.Minute,
	"categories":   10 * time.Minute,
	"transactions": 2 * time.Minute,
	"payees":       30 * time.Minute,
	"months":       10 * time.Minute,
	"user":         time.Hour,
}

// TTLFor returns the recommended TTL for a logical data category, or the
// default TTL for unknown categories.
func TTLFor(category string) time.Duration {
	if ttl, ok := categoryTTLs[category]; ok {
		return ttl
	}
	return DefaultTTL
}
