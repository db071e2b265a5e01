package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryCheckerConfig configures the process memory checker.
type MemoryCheckerConfig struct {
	// WarningThreshold is the heap usage ratio (0..1) that reports
	// degraded. Default: 0.8.
	WarningThreshold float64

	// CriticalThreshold is the heap usage ratio (0..1) that reports
	// unhealthy. Default: 0.95.
	CriticalThreshold float64

	// MaxAlloc is the allocation budget in bytes the ratios are measured
	// against. Zero falls back to the runtime's Sys figure.
	MaxAlloc uint64
}

// MemoryChecker reports on process heap usage. The cache holds every entry
// in memory, so heap pressure is the first signal that the entry limit is
// set too high for the deployment.
func MemoryChecker(cfg MemoryCheckerConfig) Checker {
	if cfg.WarningThreshold <= 0 || cfg.WarningThreshold >= 1 {
		cfg.WarningThreshold = 0.8
	}
	if cfg.CriticalThreshold <= cfg.WarningThreshold || cfg.CriticalThreshold >= 1 {
		cfg.CriticalThreshold = 0.95
	}

	return NewChecker("memory", func(context.Context) Result {
		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)

		maxAlloc := cfg.MaxAlloc
		if maxAlloc == 0 {
			maxAlloc = stats.Sys
		}
		details := map[string]any{
			"alloc_bytes":  stats.Alloc,
			"sys_bytes":    stats.Sys,
			"heap_objects": stats.HeapObjects,
			"num_gc":       stats.NumGC,
			"goroutines":   runtime.NumGoroutine(),
		}
		if maxAlloc == 0 {
			return Healthy("memory stats unavailable").WithDetails(details)
		}

		ratio := float64(stats.Alloc) / float64(maxAlloc)
		msg := fmt.Sprintf("heap usage %.1f%%", ratio*100)
		switch {
		case ratio >= cfg.CriticalThreshold:
			return Unhealthy(msg, nil).WithDetails(details)
		case ratio >= cfg.WarningThreshold:
			return Degraded(msg).WithDetails(details)
		default:
			return Healthy(msg).WithDetails(details)
		}
	})
}
