package cache

import (
	"context"
	"time"
)

// WrapOptions configures a Wrap call.
type WrapOptions[T any] struct {
	// TTL for a value written back by the loader. <= 0 means the configured
	// default TTL on a miss load, or the original entry's TTL on a stale
	// refresh.
	TTL time.Duration

	// StaleWindow for a written-back value. Zero means none on a miss load,
	// or the original entry's stale window on a stale refresh.
	// UseDefaultStaleWindow applies the configured default.
	StaleWindow time.Duration

	// Loader produces the value on a miss or background refresh. Required.
	Loader func(ctx context.Context) (T, error)
}

// Wrap returns the cached value for key, loading it when necessary.
//
// Fresh entries are returned without invoking the loader. Stale entries are
// returned immediately and at most one background refresh per key is
// started; a refresh failure is discarded and the stale value remains
// servable. On an expired or absent entry, concurrent callers share a single
// loader invocation and all receive its result; a successful load is written
// back through Set semantics (capacity and eviction included), a failed load
// caches nothing so the next caller retries.
//
// An explicit Set or Delete for the key issued while a load or refresh is in
// flight supersedes it: the outstanding loader's result is dropped rather
// than clobbering the newer data.
func Wrap[T any](ctx context.Context, c *Cache, key string, opts WrapOptions[T]) (T, error) {
	var zero T
	if c == nil {
		return zero, ErrNilCache
	}
	if opts.Loader == nil {
		return zero, ErrNilLoader
	}
	loader := func(ctx context.Context) (any, error) {
		return opts.Loader(ctx)
	}

	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		switch e.state(c.now()) {
		case StateFresh:
			c.hits++
			c.order.MoveToFront(elem)
			v := e.value
			c.mu.Unlock()
			return assertValue[T](v)
		case StateStale:
			c.hits++
			c.order.MoveToFront(elem)
			v := e.value
			c.startRefreshLocked(ctx, key, e, opts.TTL, opts.StaleWindow, loader)
			c.mu.Unlock()
			return assertValue[T](v)
		default:
			c.removeLocked(elem)
		}
	}
	c.misses++

	// Register the flight before releasing the lock so a concurrent Set or
	// Delete can supersede it, then dedupe the load itself through the
	// singleflight group: concurrent callers join the same invocation.
	f, ok := c.inflight[key]
	if !ok {
		f = &flight{}
		c.inflight[key] = f
	}
	ttl := c.resolveTTL(opts.TTL)
	staleWindow := c.resolveStaleWindow(opts.StaleWindow)
	c.mu.Unlock()

	v, err, _ := c.loads.Do(key, func() (any, error) {
		defer c.clearFlight(key, f)

		val, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if !f.superseded {
			c.setLocked(key, val, ttl, staleWindow)
		}
		c.mu.Unlock()
		return val, nil
	})
	if err != nil {
		return zero, err
	}
	return assertValue[T](v)
}

// startRefreshLocked begins a background refresh for a stale entry unless
// one is already running. The refresh writes back with the original entry's
// TTL and stale window unless the caller overrode them, and only while the
// entry it refreshed is still current. Errors are discarded: the stale value
// already served remains valid. Caller must hold c.mu.
func (c *Cache) startRefreshLocked(ctx context.Context, key string, e *entry, ttl, staleWindow time.Duration, loader func(context.Context) (any, error)) {
	if r := c.refreshing[key]; r != nil && r.active {
		return
	}
	r := &refreshOp{active: true}
	c.refreshing[key] = r

	if ttl <= 0 {
		ttl = e.ttl
	}
	if staleWindow == 0 {
		staleWindow = e.staleWindow
	} else {
		staleWindow = c.resolveStaleWindow(staleWindow)
	}

	// The refresh outlives the caller that triggered it.
	ctx = context.WithoutCancel(ctx)
	go func() {
		val, err := loader(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.refreshing[key] == r {
			delete(c.refreshing, key)
		}
		if err != nil {
			return
		}
		elem, ok := c.entries[key]
		if !ok || elem.Value.(*entry) != e {
			// Superseded by a newer write; drop the refresh result.
			return
		}
		c.setLocked(key, val, ttl, staleWindow)
	}()
}

// clearFlight removes the in-flight record once its load settles, exactly
// once, unless a supersede already replaced it.
func (c *Cache) clearFlight(key string, f *flight) {
	c.mu.Lock()
	if c.inflight[key] == f {
		delete(c.inflight, key)
	}
	c.mu.Unlock()
}

func assertValue[T any](v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, ErrWrongType
	}
	return t, nil
}
