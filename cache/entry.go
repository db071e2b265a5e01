package cache

import "time"

// State classifies a cache entry relative to its TTL and stale window.
type State int

const (
	// StateFresh indicates the entry is within its TTL.
	StateFresh State = iota
	// StateStale indicates the entry is past its TTL but within the stale
	// window and may still be served while a refresh runs.
	StateStale
	// StateExpired indicates the entry must not be served.
	StateExpired
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// entry is a stored cache value with its freshness window. Entries are
// immutable after insertion; an update replaces the entry wholesale.
type entry struct {
	key         string
	value       any
	writtenAt   time.Time
	ttl         time.Duration
	staleWindow time.Duration
}

// state classifies the entry at the given instant.
// Fresh: age <= ttl. Stale: ttl < age <= ttl+staleWindow. Expired otherwise.
func (e *entry) state(now time.Time) State {
	age := now.Sub(e.writtenAt)
	if age <= e.ttl {
		return StateFresh
	}
	if e.staleWindow > 0 && age <= e.ttl+e.staleWindow {
		return StateStale
	}
	return StateExpired
}
