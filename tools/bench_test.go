package tools

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/budgetops/cache"
)

func BenchmarkInputDigest(b *testing.B) {
	input := map[string]any{
		"budget_id":  "b1",
		"account_id": "a1",
		"since_date": "2026-01-01",
		"nested":     map[string]any{"x": 1.0, "y": []any{"p", "q"}},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := InputDigest(input); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExecutor_CachedCall(b *testing.B) {
	c := cache.New(cache.Config{MaxEntries: 100, DefaultTTL: time.Hour})
	e := NewExecutor(ExecutorConfig{Cache: c})
	_ = e.Register(Tool{
		Name:     "list_accounts",
		Category: "accounts",
		Handler: func(context.Context, map[string]any) (any, error) {
			return "accounts", nil
		},
	})
	ctx := context.Background()
	input := map[string]any{"budget_id": "b1"}
	if _, err := e.Execute(ctx, "list_accounts", input); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Execute(ctx, "list_accounts", input); err != nil {
			b.Fatal(err)
		}
	}
}
