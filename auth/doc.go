// Package auth authenticates inbound tool calls.
//
// It validates JWT bearer tokens and attaches the resulting identity to the
// request context for tool handlers to inspect.
package auth
