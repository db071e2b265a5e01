// Package budget is the client for the upstream budgeting API.
//
// It provides typed access to budgets, accounts, categories, and
// transactions over the API's JSON envelope format, with retry and timeout
// handling for transient upstream failures. Tool handlers use it as the
// loader behind the cache rather than calling it directly.
package budget
