// Package health provides health checks for the service's dependencies.
//
// Checkers probe individual components: the in-process cache and the
// upstream budgeting API. An Aggregator runs them in parallel with a shared
// timeout and folds their results into an overall status. HTTP handlers
// expose liveness, readiness, and a detailed JSON report.
package health
