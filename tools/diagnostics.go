package tools

import (
	"context"
	"fmt"

	"github.com/jonwraymond/budgetops/cache"
)

// Diagnostics reports on the cache from inside a tool call: hit counters,
// the keys in recency order, an explicit expired-entry sweep, and an
// estimate of the cached payload size.
type Diagnostics struct {
	Stats          cache.Stats         `json:"stats"`
	Cleanup        cache.CleanupResult `json:"cleanup"`
	EstimatedBytes int                 `json:"estimated_bytes"`
}

// DiagnosticsTool returns the tool that inspects and sweeps the cache.
// It is never cached and requires an operator scope.
func DiagnosticsTool(c *cache.Cache) Tool {
	return Tool{
		Name:          "cache_diagnostics",
		Description:   "Report cache statistics, sweep expired entries, and estimate cached payload size.",
		RequiredScope: "ops:read",
		Handler: func(ctx context.Context, _ map[string]any) (any, error) {
			if c == nil {
				return nil, fmt.Errorf("%w: no cache configured", cache.ErrNilCache)
			}
			swept := c.CleanupDetailed()
			return Diagnostics{
				Stats:          c.Stats(),
				Cleanup:        swept,
				EstimatedBytes: cache.EstimateBytes(c.EntriesForSizeEstimation()),
			}, nil
		},
	}
}
