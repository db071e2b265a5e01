package health

import (
	"context"
	"sync"
	"time"
)

// DefaultCheckTimeout bounds a full CheckAll pass.
const DefaultCheckTimeout = 10 * time.Second

// Aggregator runs a set of checkers in parallel and folds their results
// into an overall status.
type Aggregator struct {
	timeout time.Duration

	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
}

// NewAggregator creates an aggregator. A timeout <= 0 falls back to
// DefaultCheckTimeout.
func NewAggregator(timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Aggregator{
		timeout:  timeout,
		checkers: make(map[string]Checker),
	}
}

// Register adds a checker under its own name. Registering the same name
// again replaces the previous checker.
func (a *Aggregator) Register(c Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.checkers[c.Name()]; !exists {
		a.order = append(a.order, c.Name())
	}
	a.checkers[c.Name()] = c
}

// Names returns the registered checker names in registration order.
func (a *Aggregator) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// Check runs a single named check.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()
	if !ok {
		return Result{}, ErrCheckerNotFound
	}
	return a.runCheck(ctx, checker), nil
}

// CheckAll runs every registered check in parallel under the aggregator's
// timeout and returns the results keyed by checker name.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checkers := make([]Checker, 0, len(a.checkers))
	for _, name := range a.order {
		checkers = append(checkers, a.checkers[name])
	}
	a.mu.RUnlock()

	results := make(map[string]Result, len(checkers))
	if len(checkers) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var wg sync.WaitGroup
	var resMu sync.Mutex
	for _, checker := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			result := a.runCheck(ctx, c)
			resMu.Lock()
			results[c.Name()] = result
			resMu.Unlock()
		}(checker)
	}
	wg.Wait()
	return results
}

// OverallStatus folds results into one status: unhealthy if any check is
// unhealthy, degraded if any is degraded, healthy otherwise.
func OverallStatus(results map[string]Result) Status {
	status := StatusHealthy
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// runCheck executes the checker in its own goroutine so a stuck check
// cannot block the caller past the context deadline.
func (a *Aggregator) runCheck(ctx context.Context, checker Checker) Result {
	start := time.Now()
	resultCh := make(chan Result, 1)
	go func() {
		result := checker.Check(ctx)
		result.Duration = time.Since(start)
		if result.Timestamp.IsZero() {
			result.Timestamp = start
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		return result
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
}
