package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/budgetops/auth"
	"github.com/jonwraymond/budgetops/cache"
	"github.com/jonwraymond/budgetops/observe"
)

// HandlerFunc executes a single tool call. The returned value must be
// JSON-serializable; it is what agents receive and what the cache stores.
type HandlerFunc func(ctx context.Context, input map[string]any) (any, error)

// Tool describes one callable operation.
type Tool struct {
	// Name is the tool's wire identifier, e.g. "list_accounts".
	Name string

	// Description is surfaced to agents when listing tools.
	Description string

	// Category is the cached data category (see cache.TTLFor). Empty
	// disables caching for the tool.
	Category string

	// Tags classify the tool. Tools tagged with any of UnsafeTags bypass
	// the cache and trigger invalidation after a successful call.
	Tags []string

	// RequiredScope, when set, must be present on the caller's identity.
	RequiredScope string

	// Handler performs the call.
	Handler HandlerFunc
}

// UnsafeTags mark tools with side effects. Calls to such tools are never
// cached.
var UnsafeTags = []string{"write", "mutation", "delete", "danger"}

// isUnsafe reports whether any tag marks the tool as side-effecting.
// Matching is case-insensitive.
func isUnsafe(tags []string) bool {
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, unsafe := range UnsafeTags {
			if lower == unsafe {
				return true
			}
		}
	}
	return false
}

// ExecutorConfig configures an Executor. Cache is required; the
// observability fields fall back to no-op implementations when unset.
type ExecutorConfig struct {
	Cache   *cache.Cache
	Logger  observe.Logger
	Metrics observe.ToolMetrics
	Tracer  trace.Tracer

	// RequireIdentity, when true, rejects calls whose context carries no
	// authenticated identity.
	RequireIdentity bool
}

// Executor dispatches tool calls through authorization, tracing, metrics,
// and the cache.
type Executor struct {
	cache           *cache.Cache
	logger          observe.Logger
	metrics         observe.ToolMetrics
	tracer          trace.Tracer
	requireIdentity bool

	mu    sync.RWMutex
	tools map[string]Tool
}

// NewExecutor creates an executor with no tools registered.
func NewExecutor(cfg ExecutorConfig) *Executor {
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NopToolMetrics()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracenoop.NewTracerProvider().Tracer("tools")
	}
	return &Executor{
		cache:           cfg.Cache,
		logger:          cfg.Logger.WithComponent("tools"),
		metrics:         cfg.Metrics,
		tracer:          cfg.Tracer,
		requireIdentity: cfg.RequireIdentity,
		tools:           make(map[string]Tool),
	}
}

// Register adds a tool. Registering a name twice is an error.
func (e *Executor) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tools: register: empty tool name")
	}
	if t.Handler == nil {
		return fmt.Errorf("tools: register %q: nil handler", t.Name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.tools[t.Name]; ok {
		return fmt.Errorf("tools: register %q: already registered", t.Name)
	}
	e.tools[t.Name] = t
	return nil
}

// Tools returns the registered tools sorted by name.
func (e *Executor) Tools() []Tool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Tool, 0, len(e.tools))
	for _, t := range e.tools {
		out = append(out, t)
	}
	sortTools(out)
	return out
}

func sortTools(ts []Tool) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j].Name < ts[j-1].Name; j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
}

// Execute runs the named tool.
//
// Read tools whose Category is set are served through the cache: repeated
// calls with equal input within the TTL return the cached result without
// invoking the handler, and stale results are returned immediately while a
// background refresh runs. Tools tagged unsafe execute directly and, on
// success, invalidate every cached entry scoped to the budget they wrote
// to. Errors are never cached.
func (e *Executor) Execute(ctx context.Context, name string, input map[string]any) (any, error) {
	e.mu.RLock()
	tool, ok := e.tools[name]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	if err := e.authorize(ctx, tool); err != nil {
		return nil, err
	}

	ctx, span := observe.ToolSpan(ctx, e.tracer, tool.Name)
	start := time.Now()
	result, cached, err := e.dispatch(ctx, tool, input)
	e.metrics.RecordExecution(ctx, tool.Name, cached, time.Since(start), err)
	observe.EndSpan(span, cached, err)

	if err != nil {
		e.logger.Warn(ctx, "tool call failed",
			observe.F("tool", tool.Name),
			observe.F("error", err.Error()))
		return nil, err
	}
	e.logger.Debug(ctx, "tool call completed",
		observe.F("tool", tool.Name),
		observe.F("cached", cached))
	return result, nil
}

func (e *Executor) authorize(ctx context.Context, tool Tool) error {
	if !e.requireIdentity && tool.RequiredScope == "" {
		return nil
	}
	id, ok := auth.IdentityFrom(ctx)
	if !ok {
		return fmt.Errorf("%w: no identity", ErrForbidden)
	}
	if tool.RequiredScope != "" && !id.HasScope(tool.RequiredScope) {
		return fmt.Errorf("%w: %s requires scope %q", ErrForbidden, tool.Name, tool.RequiredScope)
	}
	return nil
}

func (e *Executor) dispatch(ctx context.Context, tool Tool, input map[string]any) (result any, cached bool, err error) {
	if isUnsafe(tool.Tags) {
		result, err = tool.Handler(ctx, input)
		if err == nil {
			e.invalidate(ctx, input)
		}
		return result, false, err
	}
	if e.cache == nil || tool.Category == "" {
		result, err = tool.Handler(ctx, input)
		return result, false, err
	}

	key, keyErr := e.callKey(tool, input)
	if keyErr != nil {
		// Unkeyable input falls back to a direct call.
		e.logger.Warn(ctx, "cache key generation failed",
			observe.F("tool", tool.Name),
			observe.F("error", keyErr.Error()))
		result, err = tool.Handler(ctx, input)
		return result, false, err
	}

	loaded := false
	result, err = cache.Wrap(ctx, e.cache, key, cache.WrapOptions[any]{
		TTL:         cache.TTLFor(tool.Category),
		StaleWindow: cache.UseDefaultStaleWindow,
		Loader: func(ctx context.Context) (any, error) {
			loaded = true
			return tool.Handler(ctx, input)
		},
	})
	return result, !loaded, err
}

// callKey builds the cache key for a read call. The budget ID, when the
// input carries one, becomes its own key segment so that budget-scoped
// invalidation can find the entry; the remaining input is folded into a
// deterministic digest.
func (e *Executor) callKey(tool Tool, input map[string]any) (string, error) {
	digest, err := InputDigest(input)
	if err != nil {
		return "", err
	}
	parts := []any{tool.Name}
	if budgetID, ok := input["budget_id"].(string); ok && budgetID != "" {
		parts = append(parts, budgetID)
	}
	parts = append(parts, digest)
	return cache.Key(tool.Category, parts...), nil
}

// invalidate drops cached results scoped to the budget a mutation wrote to.
// Mutations without a budget ID leave the cache untouched.
func (e *Executor) invalidate(ctx context.Context, input map[string]any) {
	if e.cache == nil {
		return
	}
	budgetID, ok := input["budget_id"].(string)
	if !ok || budgetID == "" {
		return
	}
	removed := e.cache.DeleteByBudgetID(budgetID)
	e.logger.Debug(ctx, "invalidated cached entries after mutation",
		observe.F("budget_id", budgetID),
		observe.F("removed", removed))
}
