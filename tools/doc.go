// Package tools exposes budgeting API operations as callable tools for an
// LLM agent protocol.
//
// The Executor dispatches tool calls through authentication, tracing,
// metrics, and the cache: read tools are served via cache.Wrap with the
// budgeting client as loader, and mutation tools invalidate the derived
// list caches for the budget they wrote to.
package tools
