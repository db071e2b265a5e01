package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/budgetops/budget"
	"github.com/jonwraymond/budgetops/cache"
)

// CacheChecker reports on the in-process cache. The cache cannot fail as
// such; the check surfaces its occupancy and hit rate, and reports degraded
// when caching is disabled (zero capacity) since every call then goes
// upstream.
func CacheChecker(c *cache.Cache) Checker {
	return NewChecker("cache", func(context.Context) Result {
		if c == nil {
			return Degraded("no cache configured")
		}
		stats := c.Stats()
		details := map[string]any{
			"entries":     stats.Size,
			"max_entries": stats.MaxEntries,
			"hits":        stats.Hits,
			"misses":      stats.Misses,
			"evictions":   stats.Evictions,
			"hit_rate":    stats.HitRate,
		}
		if stats.MaxEntries <= 0 {
			return Degraded("caching disabled").WithDetails(details)
		}
		msg := fmt.Sprintf("%d/%d entries", stats.Size, stats.MaxEntries)
		return Healthy(msg).WithDetails(details)
	})
}

// UpstreamChecker verifies the budgeting API is reachable with valid
// credentials by fetching the authenticated user. Rate limiting counts as
// degraded rather than unhealthy: the API is up, just throttling us.
func UpstreamChecker(client *budget.Client) Checker {
	return NewChecker("upstream", func(ctx context.Context) Result {
		if client == nil {
			return Unhealthy("no client configured", nil)
		}
		user, err := client.User(ctx)
		if err != nil {
			if errors.Is(err, budget.ErrRateLimited) {
				return Degraded("budgeting API rate limited")
			}
			return Unhealthy("budgeting API unreachable", err)
		}
		return Healthy("budgeting API reachable").WithDetails(map[string]any{
			"user_id": user.ID,
		})
	})
}
