// Package resilience provides retry and timeout wrappers for calls to the
// upstream budgeting API.
package resilience
