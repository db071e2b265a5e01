package health

import (
	"context"
	"time"
)

// Status classifies a component's health.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component works but with reduced service.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning.
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of one health check.
type Result struct {
	Status    Status
	Message   string
	Details   map[string]any
	Duration  time.Duration
	Timestamp time.Time
	Error     error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, Timestamp: time.Now()}
}

// Degraded creates a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message, Timestamp: time.Now()}
}

// Unhealthy creates an unhealthy result carrying the cause.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err, Timestamp: time.Now()}
}

// WithDetails attaches metadata to a result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker probes one component.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Cancellation: Check must respect ctx and return promptly on cancellation.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckFunc adapts a function to the Checker interface.
type CheckFunc func(ctx context.Context) Result

type funcChecker struct {
	name string
	fn   CheckFunc
}

// NewChecker creates a Checker from a name and a check function.
func NewChecker(name string, fn CheckFunc) Checker {
	return &funcChecker{name: name, fn: fn}
}

func (c *funcChecker) Name() string                      { return c.name }
func (c *funcChecker) Check(ctx context.Context) Result { return c.fn(ctx) }
