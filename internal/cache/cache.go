// Package cache is the shared read cache consumed by list and detail views.
//
// Values are keyed by string (e.g. "messages:<conversation id>"). Reads go
// through Fetch, which loads a missing key once no matter how many callers ask
// for it concurrently. Every write bumps the key's generation; a load that
// started before a write (or before CancelFetch) never stores its result, so a
// slow background read cannot clobber an optimistic write.
//
// Stored values are treated as immutable: callers that need to change a
// slice value must build a new slice inside Update rather than editing the
// one returned by Get.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the authoritative value for a key.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Cache is a concurrency-safe keyed cache. The zero value is not usable;
// construct with New.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	loads   singleflight.Group
}

type entry[V any] struct {
	value V
	ok    bool
	gen   uint64

	// cancel aborts the in-flight load, if any. loadSeq identifies it so a
	// finishing load only clears its own cancel func.
	cancel  context.CancelFunc
	loadSeq uint64
}

// New returns an empty Cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]*entry[V])}
}

// entryLocked returns the entry for key, creating it if needed.
// c.mu must be held.
func (c *Cache[V]) entryLocked(key string) *entry[V] {
	e, ok := c.entries[key]
	if !ok {
		e = &entry[V]{}
		c.entries[key] = e
	}
	return e
}

// dropIdleLocked removes e when it holds no value and no load is using it.
// A load detached by abortLocked may still hold e; its generation has moved
// on, so it never stores into the orphaned entry. c.mu must be held.
func (c *Cache[V]) dropIdleLocked(key string, e *entry[V]) {
	if !e.ok && e.cancel == nil && c.entries[key] == e {
		delete(c.entries, key)
	}
}

// Get returns the cached value for key and whether one is present.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores v under key, superseding any in-flight load.
func (c *Cache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	e.value, e.ok = v, true
	e.gen++
}

// Update atomically replaces the value under key with fn(current, present)
// and returns the new value.
func (c *Cache[V]) Update(key string, fn func(cur V, ok bool) V) V {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	e.value = fn(e.value, e.ok)
	e.ok = true
	e.gen++
	return e.value
}

// Invalidate drops the value under key and aborts any in-flight load.
// The next Fetch loads it again.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return
	}
	c.abortLocked(key, e)
	var zero V
	e.value, e.ok = zero, false
	e.gen++
	c.dropIdleLocked(key, e)
}

// CancelFetch aborts the in-flight load for key, if any, and guarantees its
// result is not stored. The cached value itself is left alone.
func (c *Cache[V]) CancelFetch(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return
	}
	c.abortLocked(key, e)
	e.gen++
	c.dropIdleLocked(key, e)
}

// abortLocked cancels the in-flight load of e and detaches it from the
// singleflight group so later Fetch calls start a fresh load.
func (c *Cache[V]) abortLocked(key string, e *entry[V]) {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
		c.loads.Forget(key)
	}
}

// Fetch returns the cached value for key, loading it with fn if absent.
// Concurrent Fetch calls for the same key share one call to fn.
func (c *Cache[V]) Fetch(ctx context.Context, key string, fn FetchFunc[V]) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	return c.load(ctx, key, fn)
}

// Refresh loads key with fn even if a value is cached, and stores the result
// unless a write to key happens while the load is running.
func (c *Cache[V]) Refresh(ctx context.Context, key string, fn FetchFunc[V]) (V, error) {
	return c.load(ctx, key, fn)
}

func (c *Cache[V]) load(ctx context.Context, key string, fn FetchFunc[V]) (V, error) {
	ch := c.loads.DoChan(key, func() (any, error) {
		// The load is shared between callers, so it must not die with the
		// context of whichever caller happened to start it.
		lctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()

		c.mu.Lock()
		e := c.entryLocked(key)
		gen := e.gen
		e.loadSeq++
		seq := e.loadSeq
		e.cancel = cancel
		c.mu.Unlock()

		v, err := fn(lctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if e.loadSeq == seq {
			e.cancel = nil
		}
		if e.gen != gen {
			// Superseded by a write or a cancel: the cache wins.
			if e.ok {
				return e.value, nil
			}
			c.dropIdleLocked(key, e)
			if err == nil {
				return v, nil
			}
			return nil, err
		}
		if err != nil {
			c.dropIdleLocked(key, e)
			return nil, err
		}
		e.value, e.ok = v, true
		e.gen++
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
