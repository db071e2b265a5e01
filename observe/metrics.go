package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/budgetops/cache"
)

// RegisterCacheMetrics exposes cache statistics as asynchronous metrics on
// the meter. The stats callback is polled on collection, so the counters
// stay accurate without instrumenting the cache's hot path.
func RegisterCacheMetrics(meter metric.Meter, stats func() cache.Stats) error {
	size, err := meter.Int64ObservableGauge(
		"cache.entries",
		metric.WithDescription("Number of stored cache entries"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return err
	}
	hits, err := meter.Int64ObservableCounter(
		"cache.hits",
		metric.WithDescription("Cache hits since the last clear"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}
	misses, err := meter.Int64ObservableCounter(
		"cache.misses",
		metric.WithDescription("Cache misses since the last clear"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}
	evictions, err := meter.Int64ObservableCounter(
		"cache.evictions",
		metric.WithDescription("LRU evictions since the last clear"),
		metric.WithUnit("{eviction}"),
	)
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(size, int64(s.Size))
		o.ObserveInt64(hits, int64(s.Hits))
		o.ObserveInt64(misses, int64(s.Misses))
		o.ObserveInt64(evictions, int64(s.Evictions))
		return nil
	}, size, hits, misses, evictions)
	return err
}

// ToolMetrics records tool execution metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type ToolMetrics interface {
	// RecordExecution records one tool call with its duration, whether it
	// was served from cache, and its error status.
	RecordExecution(ctx context.Context, tool string, cached bool, duration time.Duration, err error)
}

type toolMetrics struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewToolMetrics creates tool execution metrics on the given meter.
func NewToolMetrics(meter metric.Meter) (ToolMetrics, error) {
	totalCount, err := meter.Int64Counter(
		"tool.exec.total",
		metric.WithDescription("Total number of tool executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}
	errorCount, err := meter.Int64Counter(
		"tool.exec.errors",
		metric.WithDescription("Total number of tool execution errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}
	durationHist, err := meter.Float64Histogram(
		"tool.exec.duration_ms",
		metric.WithDescription("Tool execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	return &toolMetrics{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

func (m *toolMetrics) RecordExecution(ctx context.Context, tool string, cached bool, duration time.Duration, err error) {
	opt := metric.WithAttributes(
		attribute.String("tool.name", tool),
		attribute.Bool("tool.cached", cached),
	)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// noopToolMetrics does nothing.
type noopToolMetrics struct{}

func (noopToolMetrics) RecordExecution(context.Context, string, bool, time.Duration, error) {}

// NopToolMetrics returns a ToolMetrics that discards everything.
func NopToolMetrics() ToolMetrics {
	return noopToolMetrics{}
}
