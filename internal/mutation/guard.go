// Package mutation runs write operations against a remote boundary with
// optimistic local visibility and snapshot rollback.
package mutation

import (
	"fmt"
	"sync"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

// Guard allows at most one in-flight mutation per key. A second Acquire on a
// busy key is rejected rather than queued.
type Guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// NewGuard returns a Guard with no busy keys.
func NewGuard() *Guard {
	return &Guard{busy: make(map[string]struct{})}
}

// Acquire marks key as busy and returns a func that frees it.
// Returns domain.ErrConflict if key is already busy.
func (g *Guard) Acquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.busy[key]; ok {
		return nil, fmt.Errorf("mutation.Guard.Acquire: %w: a submission for %s is already in flight", domain.ErrConflict, key)
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, nil
}

// Busy reports whether a mutation for key is in flight.
func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.busy[key]
	return ok
}
