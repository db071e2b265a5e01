package tools

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/budgetops/auth"
	"github.com/jonwraymond/budgetops/cache"
)

func newTestExecutor(t *testing.T) (*Executor, *cache.Cache) {
	t.Helper()
	c := cache.New(cache.Config{
		MaxEntries:         100,
		DefaultTTL:         time.Minute,
		DefaultStaleWindow: 0,
	})
	return NewExecutor(ExecutorConfig{Cache: c}), c
}

// countingTool returns a cacheable read tool whose handler counts its
// invocations.
func countingTool(name, category string, calls *atomic.Int64) Tool {
	return Tool{
		Name:     name,
		Category: category,
		Handler: func(_ context.Context, input map[string]any) (any, error) {
			calls.Add(1)
			return input["budget_id"], nil
		},
	}
}

func TestExecutor_CachesReadTools(t *testing.T) {
	e, _ := newTestExecutor(t)
	var calls atomic.Int64
	if err := e.Register(countingTool("list_accounts", "accounts", &calls)); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	input := map[string]any{"budget_id": "b1"}

	first, err := e.Execute(ctx, "list_accounts", input)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := e.Execute(ctx, "list_accounts", input)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("handler called %d times, want 1", got)
	}
	if first != second {
		t.Errorf("cached result %v differs from original %v", second, first)
	}

	// A different input must not share the cached entry.
	if _, err := e.Execute(ctx, "list_accounts", map[string]any{"budget_id": "b2"}); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("handler called %d times after distinct input, want 2", got)
	}
}

func TestExecutor_ErrorsAreNotCached(t *testing.T) {
	e, _ := newTestExecutor(t)
	var calls atomic.Int64
	boom := errors.New("upstream down")
	err := e.Register(Tool{
		Name:     "list_budgets",
		Category: "budgets",
		Handler: func(context.Context, map[string]any) (any, error) {
			calls.Add(1)
			return nil, boom
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := e.Execute(ctx, "list_budgets", nil); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v, want %v", i, err, boom)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("handler called %d times, want 2 (errors must not be cached)", got)
	}
}

func TestExecutor_MutationBypassesCacheAndInvalidates(t *testing.T) {
	e, _ := newTestExecutor(t)
	var reads, writes atomic.Int64
	if err := e.Register(countingTool("list_accounts", "accounts", &reads)); err != nil {
		t.Fatal(err)
	}
	err := e.Register(Tool{
		Name: "create_transaction",
		Tags: []string{"write"},
		Handler: func(context.Context, map[string]any) (any, error) {
			writes.Add(1)
			return "created", nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// Prime cached listings for two budgets.
	for _, id := range []string{"b1", "b2"} {
		if _, err := e.Execute(ctx, "list_accounts", map[string]any{"budget_id": id}); err != nil {
			t.Fatal(err)
		}
	}

	// Mutations always execute.
	for i := 0; i < 2; i++ {
		if _, err := e.Execute(ctx, "create_transaction", map[string]any{"budget_id": "b1"}); err != nil {
			t.Fatal(err)
		}
	}
	if got := writes.Load(); got != 2 {
		t.Errorf("mutation handler called %d times, want 2", got)
	}

	// b1's listing was invalidated, b2's survived.
	if _, err := e.Execute(ctx, "list_accounts", map[string]any{"budget_id": "b1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Execute(ctx, "list_accounts", map[string]any{"budget_id": "b2"}); err != nil {
		t.Fatal(err)
	}
	if got := reads.Load(); got != 3 {
		t.Errorf("read handler called %d times, want 3 (b1 reloaded, b2 cached)", got)
	}
}

func TestExecutor_UncategorizedToolSkipsCache(t *testing.T) {
	e, _ := newTestExecutor(t)
	var calls atomic.Int64
	if err := e.Register(countingTool("ping", "", &calls)); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := e.Execute(ctx, "ping", nil); err != nil {
			t.Fatal(err)
		}
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("handler called %d times, want 3", got)
	}
}

func TestExecutor_UnknownTool(t *testing.T) {
	e, _ := newTestExecutor(t)
	if _, err := e.Execute(context.Background(), "nope", nil); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("err = %v, want ErrUnknownTool", err)
	}
}

func TestExecutor_RegisterValidation(t *testing.T) {
	e, _ := newTestExecutor(t)
	handler := func(context.Context, map[string]any) (any, error) { return nil, nil }

	if err := e.Register(Tool{Name: "", Handler: handler}); err == nil {
		t.Error("expected error for empty name")
	}
	if err := e.Register(Tool{Name: "t"}); err == nil {
		t.Error("expected error for nil handler")
	}
	if err := e.Register(Tool{Name: "t", Handler: handler}); err != nil {
		t.Fatal(err)
	}
	if err := e.Register(Tool{Name: "t", Handler: handler}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestExecutor_ScopeEnforcement(t *testing.T) {
	e, _ := newTestExecutor(t)
	err := e.Register(Tool{
		Name:          "create_transaction",
		Tags:          []string{"write"},
		RequiredScope: "budget:write",
		Handler: func(context.Context, map[string]any) (any, error) {
			return "ok", nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.Execute(context.Background(), "create_transaction", nil); !errors.Is(err, ErrForbidden) {
		t.Errorf("no identity: err = %v, want ErrForbidden", err)
	}

	readOnly := auth.WithIdentity(context.Background(), &auth.Identity{
		Principal: "agent-1",
		Scopes:    []string{"budget:read"},
	})
	if _, err := e.Execute(readOnly, "create_transaction", nil); !errors.Is(err, ErrForbidden) {
		t.Errorf("missing scope: err = %v, want ErrForbidden", err)
	}

	writer := auth.WithIdentity(context.Background(), &auth.Identity{
		Principal: "agent-1",
		Scopes:    []string{"budget:read", "budget:write"},
	})
	if _, err := e.Execute(writer, "create_transaction", nil); err != nil {
		t.Errorf("with scope: unexpected error %v", err)
	}
}

func TestExecutor_RequireIdentity(t *testing.T) {
	c := cache.New(cache.Config{MaxEntries: 10, DefaultTTL: time.Minute})
	e := NewExecutor(ExecutorConfig{Cache: c, RequireIdentity: true})
	err := e.Register(Tool{
		Name:     "get_user",
		Category: "user",
		Handler: func(context.Context, map[string]any) (any, error) {
			return "u1", nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.Execute(context.Background(), "get_user", nil); !errors.Is(err, ErrForbidden) {
		t.Errorf("anonymous call: err = %v, want ErrForbidden", err)
	}

	ctx := auth.WithIdentity(context.Background(), &auth.Identity{Principal: "agent-1"})
	if _, err := e.Execute(ctx, "get_user", nil); err != nil {
		t.Errorf("authenticated call: unexpected error %v", err)
	}
}

func TestExecutor_ToolsSortedByName(t *testing.T) {
	e, _ := newTestExecutor(t)
	handler := func(context.Context, map[string]any) (any, error) { return nil, nil }
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := e.Register(Tool{Name: name, Handler: handler}); err != nil {
			t.Fatal(err)
		}
	}
	listed := e.Tools()
	want := []string{"alpha", "mid", "zeta"}
	if len(listed) != len(want) {
		t.Fatalf("got %d tools, want %d", len(listed), len(want))
	}
	for i, name := range want {
		if listed[i].Name != name {
			t.Errorf("tools[%d] = %q, want %q", i, listed[i].Name, name)
		}
	}
}

func TestIsUnsafe(t *testing.T) {
	tests := []struct {
		tags []string
		want bool
	}{
		{nil, false},
		{[]string{"read"}, false},
		{[]string{"write"}, true},
		{[]string{"WRITE"}, true},
		{[]string{"read", "Mutation"}, true},
		{[]string{"delete"}, true},
	}
	for _, tt := range tests {
		if got := isUnsafe(tt.tags); got != tt.want {
			t.Errorf("isUnsafe(%v) = %v, want %v", tt.tags, got, tt.want)
		}
	}
}
