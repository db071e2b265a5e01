package cache

import (
	"container/list"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// UseDefaultStaleWindow requests the configured default stale window when
// passed as EntryOptions.StaleWindow or WrapOptions.StaleWindow. Leaving the
// field zero means no stale window at all.
const UseDefaultStaleWindow time.Duration = -1

// Sentinel errors for cache operations.
var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrNilLoader  = errors.New("cache: loader is nil")
	ErrWrongType  = errors.New("cache: cached value has unexpected type")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Config configures a Cache instance. It is read once at construction.
type Config struct {
	// MaxEntries is the maximum number of entries before LRU eviction.
	// Zero or negative disables caching entirely: Set becomes a no-op.
	MaxEntries int

	// DefaultTTL is applied when Set or Wrap is called without a TTL.
	DefaultTTL time.Duration

	// DefaultStaleWindow is applied when a caller explicitly requests it
	// with UseDefaultStaleWindow. It is never applied implicitly.
	DefaultStaleWindow time.Duration

	// Clock overrides the time source. Nil means time.Now. Tests use this
	// to control entry freshness deterministically.
	Clock func() time.Time
}

// Cache is an in-memory key-value cache with TTL expiration, LRU eviction,
// stale-while-revalidate serving, and single-flight load deduplication.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: Get never errors; it returns (nil, false) on miss. The cache
//   itself is best-effort and never originates fatal errors.
// - Lifecycle: construct with New at startup and inject into consumers;
//   there is no package-level instance.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used, back = eviction candidate

	maxEntries         int
	defaultTTL         time.Duration
	defaultStaleWindow time.Duration
	clock              func() time.Time

	loads      singleflight.Group
	inflight   map[string]*flight
	refreshing map[string]*refreshOp

	hits        uint64
	misses      uint64
	evictions   uint64
	lastCleanup time.Time
}

// flight tracks one in-flight miss load so that an explicit Set or Delete
// issued while the load runs can suppress its write-back.
type flight struct {
	superseded bool // guarded by Cache.mu
}

// refreshOp tracks one stale key: marked as needing a refresh by Get, and
// as actively refreshing once Wrap has started a background loader.
type refreshOp struct {
	active bool // guarded by Cache.mu
}

// New creates a cache with the given configuration.
func New(cfg Config) *Cache {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.DefaultStaleWindow < 0 {
		cfg.DefaultStaleWindow = DefaultStaleWindow
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		entries:            make(map[string]*list.Element),
		order:              list.New(),
		maxEntries:         cfg.MaxEntries,
		defaultTTL:         cfg.DefaultTTL,
		defaultStaleWindow: cfg.DefaultStaleWindow,
		clock:              clock,
		inflight:           make(map[string]*flight),
		refreshing:         make(map[string]*refreshOp),
	}
}

func (c *Cache) now() time.Time {
	return c.clock()
}

// Get retrieves a value. Fresh and stale entries are returned and count as
// hits; a stale entry is additionally marked as needing a background refresh
// (picked up by the next Wrap call for the key). Expired entries are removed
// and, like absent keys, return (nil, false) and count as misses.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	e := elem.Value.(*entry)
	switch e.state(c.now()) {
	case StateFresh:
		c.hits++
		c.order.MoveToFront(elem)
		return e.value, true
	case StateStale:
		c.hits++
		c.order.MoveToFront(elem)
		if c.refreshing[key] == nil {
			c.refreshing[key] = &refreshOp{}
		}
		return e.value, true
	default:
		c.removeLocked(elem)
		c.misses++
		return nil, false
	}
}

// Get retrieves a typed value from the cache. It returns (zero, false) on
// miss or when the cached value is not a T.
func Get[T any](c *Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Has reports whether the key holds a servable (fresh or stale) entry. It
// never mutates counters, recency order, or refresh markers.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	return elem.Value.(*entry).state(c.now()) != StateExpired
}

// Set stores a value with the given TTL and no stale window. TTL <= 0 uses
// the configured default TTL. If MaxEntries is not positive the call is a
// no-op. A Set always supersedes any in-flight load or pending refresh for
// the key.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, c.resolveTTL(ttl), 0)
}

// EntryOptions configures SetEntry with independent TTL and stale window.
type EntryOptions struct {
	// TTL for the entry. <= 0 uses the configured default TTL.
	TTL time.Duration

	// StaleWindow is the grace period after TTL during which the entry is
	// served stale. Zero means none; UseDefaultStaleWindow applies the
	// configured default.
	StaleWindow time.Duration
}

// SetEntry stores a value with explicit entry options.
func (c *Cache) SetEntry(key string, value any, opts EntryOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, c.resolveTTL(opts.TTL), c.resolveStaleWindow(opts.StaleWindow))
}

func (c *Cache) resolveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return c.defaultTTL
	}
	return ttl
}

func (c *Cache) resolveStaleWindow(sw time.Duration) time.Duration {
	if sw == UseDefaultStaleWindow {
		return c.defaultStaleWindow
	}
	if sw < 0 {
		return 0
	}
	return sw
}

// setLocked writes an entry, evicting from the LRU end first when the write
// would grow the store past capacity. Caller must hold c.mu.
func (c *Cache) setLocked(key string, value any, ttl, staleWindow time.Duration) {
	// Fresh data supersedes any outstanding load or refresh.
	c.supersedeLocked(key)

	if c.maxEntries <= 0 {
		return
	}

	e := &entry{
		key:         key,
		value:       value,
		writtenAt:   c.now(),
		ttl:         ttl,
		staleWindow: staleWindow,
	}

	if elem, ok := c.entries[key]; ok {
		// Overwrite does not grow the store, so no eviction check.
		elem.Value = e
		c.order.MoveToFront(elem)
		return
	}

	for len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = c.order.PushFront(e)
}

// evictOldestLocked removes the least-recently-used entry and clears its
// in-flight state. Caller must hold c.mu.
func (c *Cache) evictOldestLocked() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	e := oldest.Value.(*entry)
	c.removeLocked(oldest)
	c.supersedeLocked(e.key)
	c.evictions++
}

// removeLocked drops an element from the store and recency list. It does not
// touch in-flight state; invalidation paths call supersedeLocked as well.
func (c *Cache) removeLocked(elem *list.Element) {
	e := elem.Value.(*entry)
	c.order.Remove(elem)
	delete(c.entries, e.key)
}

// supersedeLocked clears in-flight load and refresh markers for a key so
// that any outstanding loader settles without writing back.
func (c *Cache) supersedeLocked(key string) {
	if f, ok := c.inflight[key]; ok {
		f.superseded = true
		delete(c.inflight, key)
		c.loads.Forget(key)
	}
	delete(c.refreshing, key)
}

// Delete removes an entry and any in-flight state for the key. It reports
// whether an entry was removed and is idempotent.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteLocked(key)
}

func (c *Cache) deleteLocked(key string) bool {
	c.supersedeLocked(key)
	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeLocked(elem)
	return true
}

// DeleteMany removes the given keys and returns how many entries existed.
func (c *Cache) DeleteMany(keys []string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range keys {
		if c.deleteLocked(key) {
			removed++
		}
	}
	return removed
}

// DeleteByPrefix removes every entry whose key equals the prefix or starts
// with the prefix followed by the key separator. Returns the number removed.
func (c *Cache) DeleteByPrefix(prefix string) int {
	return c.deleteMatching(func(key string) bool {
		return key == prefix || strings.HasPrefix(key, prefix+KeySeparator)
	})
}

// DeleteByBudgetID removes every entry whose key contains the budget ID as
// an exact separator-delimited segment. Mutation tools use this to
// invalidate derived list caches after a write.
func (c *Cache) DeleteByBudgetID(budgetID string) int {
	if budgetID == "" {
		return 0
	}
	return c.deleteMatching(func(key string) bool {
		for _, segment := range strings.Split(key, KeySeparator) {
			if segment == budgetID {
				return true
			}
		}
		return false
	})
}

func (c *Cache) deleteMatching(match func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var doomed []string
	for key := range c.entries {
		if match(key) {
			doomed = append(doomed, key)
		}
	}
	for _, key := range doomed {
		c.deleteLocked(key)
	}
	return len(doomed)
}

// Clear removes all entries and in-flight state and resets every counter.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, f := range c.inflight {
		f.superseded = true
		c.loads.Forget(key)
	}
	c.inflight = make(map[string]*flight)
	c.refreshing = make(map[string]*refreshOp)
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.hits = 0
	c.misses = 0
	c.evictions = 0
	c.lastCleanup = time.Time{}
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
