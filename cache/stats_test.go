package cache

import (
	"testing"
	"time"
)

func TestStats_HitRate(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(10, clock)

	if got := c.Stats().HitRate; got != 0 {
		t.Errorf("hit rate with no requests = %v, want 0", got)
	}

	c.Set("k", "v", time.Minute)
	c.Get("k")
	c.Get("k")
	c.Get("missing")
	c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 2 {
		t.Fatalf("stats = %d hits / %d misses, want 2/2", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("hit rate = %v, want 0.5", stats.HitRate)
	}
	if stats.MaxEntries != 10 {
		t.Errorf("MaxEntries = %d, want 10", stats.MaxEntries)
	}
}

func TestStats_KeysInRecencyOrder(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(10, clock)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("c", 3, time.Minute)
	c.Get("a") // promotes a to most recently used

	keys := c.Stats().Keys
	want := []string{"b", "c", "a"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q (oldest first)", i, keys[i], want[i])
		}
	}
}

func TestCleanup(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(10, clock)

	c.Set("short", 1, 10*time.Second)
	c.Set("long", 2, time.Hour)
	c.SetEntry("stale", 3, EntryOptions{TTL: 10 * time.Second, StaleWindow: time.Hour})

	if got := c.Stats().LastCleanup; !got.IsZero() {
		t.Errorf("LastCleanup before any sweep = %v, want zero", got)
	}

	clock.Advance(time.Minute)
	result := c.CleanupDetailed()
	if result.Removed != 1 {
		t.Errorf("removed = %d, want 1 (only the expired entry)", result.Removed)
	}
	if result.Remaining != 2 {
		t.Errorf("remaining = %d, want 2", result.Remaining)
	}
	if c.Has("short") {
		t.Error("expired entry should have been swept")
	}
	if !c.Has("long") || !c.Has("stale") {
		t.Error("fresh and stale-servable entries must survive the sweep")
	}
	if got := c.Stats().LastCleanup; !got.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v, want %v", got, clock.Now())
	}

	// Nothing left to remove on a second sweep.
	if got := c.Cleanup(); got != 0 {
		t.Errorf("second sweep removed %d, want 0", got)
	}
}

func TestEntriesForSizeEstimation(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(10, clock)

	c.Set("gone", 1, 10*time.Second)
	c.Set("kept", map[string]any{"balance": 12500}, time.Hour)
	clock.Advance(time.Minute)

	entries := c.EntriesForSizeEstimation()
	if len(entries) != 1 {
		t.Fatalf("snapshot has %d entries, want 1 (expired excluded)", len(entries))
	}
	if entries[0].Key != "kept" {
		t.Errorf("snapshot key = %q, want kept", entries[0].Key)
	}
}

func TestEstimateBytes(t *testing.T) {
	entries := []EstimationEntry{
		{Key: "a", Value: map[string]any{"n": 1}},
		{Key: "b", Value: "text"},
	}
	if got := EstimateBytes(entries); got <= 0 {
		t.Errorf("estimate = %d, want a positive advisory size", got)
	}

	// Non-serializable payloads degrade to zero contribution, not a panic.
	withBad := append(entries, EstimationEntry{Key: "c", Value: make(chan int)})
	good := EstimateBytes(entries)
	if got := EstimateBytes(withBad); got != good {
		t.Errorf("estimate with unserializable entry = %d, want %d", got, good)
	}

	if got := EstimateBytes(nil); got != 0 {
		t.Errorf("estimate of empty snapshot = %d, want 0", got)
	}
}

func TestMetadata_FlagsExpired(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(10, clock)

	c.Set("gone", 1, 10*time.Second)
	c.Set("kept", 2, time.Hour)
	clock.Advance(time.Minute)

	meta := c.Metadata()
	if len(meta) != 2 {
		t.Fatalf("metadata has %d entries, want 2 (expired flagged, not omitted)", len(meta))
	}
	states := map[string]State{}
	for _, m := range meta {
		states[m.Key] = m.State
	}
	if states["gone"] != StateExpired {
		t.Errorf("state of expired entry = %v, want expired", states["gone"])
	}
	if states["kept"] != StateFresh {
		t.Errorf("state of fresh entry = %v, want fresh", states["kept"])
	}
}
