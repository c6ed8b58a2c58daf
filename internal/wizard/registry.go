package wizard

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

// Registry owns one Store per wizard session, keyed by a random session ID.
// Sessions live until they are deleted or left idle for longer than the
// timeout passed to Sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	now      func() time.Time
	log      *slog.Logger
}

type session struct {
	store    *Store
	lastUsed time.Time
}

// NewRegistry returns an empty Registry.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*session),
		now:      time.Now,
		log:      log,
	}
}

// Create starts a new wizard session with a default draft.
func (r *Registry) Create() (uuid.UUID, *Store) {
	id := uuid.New()
	st := NewStore(r.log.With("draft_id", id))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &session{store: st, lastUsed: r.now()}
	return id, st
}

// Get returns the Store for a session and marks it as used.
// Returns domain.ErrNotFound if the session does not exist.
func (r *Registry) Get(id uuid.UUID) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("wizard.Registry.Get: %w", domain.ErrNotFound)
	}
	s.lastUsed = r.now()
	return s.store, nil
}

// Delete ends a session. Returns domain.ErrNotFound if it does not exist.
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("wizard.Registry.Delete: %w", domain.ErrNotFound)
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes every session not used within idle and returns how many
// were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.lastUsed.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	if n > 0 {
		r.log.Info("evicted idle drafts", "count", n, "remaining", len(r.sessions))
	}
	return n
}
