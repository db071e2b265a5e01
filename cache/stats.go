package cache

import (
	"encoding/json"
	"time"
)

// Stats is a point-in-time snapshot of cache activity since the last Clear.
type Stats struct {
	// Size is the number of stored entries, including not-yet-swept
	// expired ones.
	Size int

	// Keys lists the stored keys in recency order, least recently used
	// first.
	Keys []string

	Hits      uint64
	Misses    uint64
	Evictions uint64

	// HitRate is hits / (hits + misses), 0 before any request.
	HitRate float64

	// LastCleanup is when the last explicit sweep ran; zero until then.
	LastCleanup time.Time

	// MaxEntries is the configured capacity.
	MaxEntries int
}

// Stats returns a snapshot of the cache counters and keys.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for elem := c.order.Back(); elem != nil; elem = elem.Prev() {
		keys = append(keys, elem.Value.(*entry).key)
	}

	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:        len(c.entries),
		Keys:        keys,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		HitRate:     hitRate,
		LastCleanup: c.lastCleanup,
		MaxEntries:  c.maxEntries,
	}
}

// CleanupResult reports the outcome of an explicit expired-entry sweep.
type CleanupResult struct {
	Removed   int
	Remaining int
	SweptAt   time.Time
}

// Cleanup sweeps every expired entry out of the store and returns how many
// were removed. The cache never sweeps on its own; callers invoke this
// opportunistically.
func (c *Cache) Cleanup() int {
	return c.CleanupDetailed().Removed
}

// CleanupDetailed sweeps expired entries and reports the result.
func (c *Cache) CleanupDetailed() CleanupResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		e := elem.Value.(*entry)
		if e.state(now) == StateExpired {
			c.removeLocked(elem)
			delete(c.refreshing, e.key)
			removed++
		}
		elem = prev
	}
	c.lastCleanup = now
	return CleanupResult{
		Removed:   removed,
		Remaining: len(c.entries),
		SweptAt:   now,
	}
}

// EstimationEntry is a key-value pair snapshotted for advisory memory-usage
// estimation by an external diagnostics collaborator.
type EstimationEntry struct {
	Key   string
	Value any
}

// EntriesForSizeEstimation snapshots the servable (non-expired) entries.
func (c *Cache) EntriesForSizeEstimation() []EstimationEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entries := make([]EstimationEntry, 0, len(c.entries))
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*entry)
		if e.state(now) == StateExpired {
			continue
		}
		entries = append(entries, EstimationEntry{Key: e.key, Value: e.value})
	}
	return entries
}

// EntryMetadata describes a stored entry without exposing its value.
type EntryMetadata struct {
	Key            string
	WrittenAt      time.Time
	TTL            time.Duration
	StaleWindow    time.Duration
	State          State
	RefreshPending bool
}

// Metadata snapshots per-entry metadata for every stored entry, with
// expired entries flagged rather than omitted.
func (c *Cache) Metadata() []EntryMetadata {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	meta := make([]EntryMetadata, 0, len(c.entries))
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*entry)
		meta = append(meta, EntryMetadata{
			Key:            e.key,
			WrittenAt:      e.writtenAt,
			TTL:            e.ttl,
			StaleWindow:    e.staleWindow,
			State:          e.state(now),
			RefreshPending: c.refreshing[e.key] != nil,
		})
	}
	return meta
}

// EstimateBytes returns an advisory byte estimate for the given entries
// based on their JSON encoding. Estimation is best-effort: entries that
// cannot be serialized contribute zero rather than failing the caller.
func EstimateBytes(entries []EstimationEntry) (total int) {
	defer func() {
		if recover() != nil {
			total = 0
		}
	}()
	for _, e := range entries {
		data, err := json.Marshal(e.Value)
		if err != nil {
			continue
		}
		total += len(e.Key) + len(data)
	}
	return total
}
