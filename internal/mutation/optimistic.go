package mutation

import (
	"context"

	"github.com/pkordes/nightcrew/backend/internal/cache"
)

// Optimistic describes one mutation of the cache entry under Key.
//
// Apply builds the speculative value written before Commit runs; leave it nil
// to skip the optimistic write. Reconcile builds the value stored after a
// successful Commit from whatever the cache holds at that point; leave it nil
// to leave the cache alone on success. Refetch, when set, reloads the key in
// the background once the mutation has settled successfully.
type Optimistic[V, R any] struct {
	Key       string
	Apply     func(cur V, ok bool) V
	Commit    func(ctx context.Context) (R, error)
	Reconcile func(cur V, ok bool, result R) V
	Refetch   cache.FetchFunc[V]
	Observe   Observer
}

// Run executes m:
//
//  1. reserve Key in g (domain.ErrConflict if another mutation holds it);
//  2. cancel any in-flight read of Key, snapshot the cached value, and write
//     Apply(snapshot);
//  3. wait for Commit;
//  4. on success store Reconcile(current, result), or drop the key if it
//     was empty before, since the speculative value alone is not the whole
//     authoritative value;
//  5. on failure restore the snapshot exactly, or drop the key if it was
//     empty before, and return Commit's error.
//
// c may be nil for mutations that do not touch a cache.
func Run[V, R any](ctx context.Context, c *cache.Cache[V], g *Guard, m Optimistic[V, R]) (R, error) {
	var zero R

	release, err := g.Acquire(m.Key)
	if err != nil {
		return zero, err
	}
	defer release()

	m.observe(Pending, nil)

	optimistic := c != nil && m.Apply != nil
	var (
		snapshot V
		had      bool
	)
	if optimistic {
		c.CancelFetch(m.Key)
		snapshot, had = c.Get(m.Key)
		c.Set(m.Key, m.Apply(snapshot, had))
	}

	result, err := m.Commit(ctx)
	if err != nil {
		if optimistic {
			if had {
				c.Set(m.Key, snapshot)
			} else {
				c.Invalidate(m.Key)
			}
		}
		m.observe(Error, err)
		return zero, err
	}

	switch {
	case optimistic && !had:
		c.Invalidate(m.Key)
	case c != nil && m.Reconcile != nil:
		c.Update(m.Key, func(cur V, ok bool) V { return m.Reconcile(cur, ok, result) })
	}
	m.observe(Success, nil)

	if c != nil && m.Refetch != nil {
		go func() {
			_, _ = c.Refresh(context.WithoutCancel(ctx), m.Key, m.Refetch)
		}()
	}
	return result, nil
}

func (m Optimistic[V, R]) observe(s Status, err error) {
	if m.Observe != nil {
		m.Observe(m.Key, s, err)
	}
}
