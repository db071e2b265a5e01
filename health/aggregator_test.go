package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func staticChecker(name string, r Result) Checker {
	return NewChecker(name, func(context.Context) Result { return r })
}

func TestAggregator_CheckAll(t *testing.T) {
	agg := NewAggregator(time.Second)
	agg.Register(staticChecker("a", Healthy("fine")))
	agg.Register(staticChecker("b", Degraded("slow")))

	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results["a"].Status != StatusHealthy {
		t.Errorf("a = %v, want healthy", results["a"].Status)
	}
	if results["b"].Status != StatusDegraded {
		t.Errorf("b = %v, want degraded", results["b"].Status)
	}
	if results["a"].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestAggregator_CheckSingle(t *testing.T) {
	agg := NewAggregator(time.Second)
	agg.Register(staticChecker("cache", Healthy("ok")))

	result, err := agg.Check(context.Background(), "cache")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusHealthy {
		t.Errorf("status = %v, want healthy", result.Status)
	}

	if _, err := agg.Check(context.Background(), "missing"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("err = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_StuckCheckerTimesOut(t *testing.T) {
	agg := NewAggregator(50 * time.Millisecond)
	agg.Register(NewChecker("stuck", func(ctx context.Context) Result {
		<-ctx.Done()
		time.Sleep(time.Second) // keeps blocking past cancellation
		return Healthy("too late")
	}))
	agg.Register(staticChecker("fast", Healthy("ok")))

	start := time.Now()
	results := agg.CheckAll(context.Background())
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("CheckAll took %v, want bounded by timeout", elapsed)
	}
	if results["stuck"].Status != StatusUnhealthy {
		t.Errorf("stuck = %v, want unhealthy", results["stuck"].Status)
	}
	if !errors.Is(results["stuck"].Error, ErrCheckTimeout) {
		t.Errorf("stuck error = %v, want ErrCheckTimeout", results["stuck"].Error)
	}
	if results["fast"].Status != StatusHealthy {
		t.Errorf("fast = %v, want healthy", results["fast"].Status)
	}
}

func TestAggregator_RegisterReplaces(t *testing.T) {
	agg := NewAggregator(time.Second)
	agg.Register(staticChecker("x", Healthy("v1")))
	agg.Register(staticChecker("x", Degraded("v2")))

	if names := agg.Names(); len(names) != 1 || names[0] != "x" {
		t.Errorf("names = %v, want [x]", names)
	}
	result, err := agg.Check(context.Background(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if result.Message != "v2" {
		t.Errorf("message = %q, want v2", result.Message)
	}
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{"empty", map[string]Result{}, StatusHealthy},
		{"all healthy", map[string]Result{"a": Healthy(""), "b": Healthy("")}, StatusHealthy},
		{"one degraded", map[string]Result{"a": Healthy(""), "b": Degraded("")}, StatusDegraded},
		{"unhealthy wins", map[string]Result{"a": Degraded(""), "b": Unhealthy("", nil)}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
