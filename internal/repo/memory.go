package repo

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

// memGroupRepo is an in-memory GroupRepo used by the simulated backend and
// by tests that do not need Postgres.
type memGroupRepo struct {
	mu     sync.RWMutex
	groups map[uuid.UUID]domain.Group
	now    func() time.Time
}

// NewMemoryGroupRepo returns an empty in-memory GroupRepo.
func NewMemoryGroupRepo() GroupRepo {
	return &memGroupRepo{groups: make(map[uuid.UUID]domain.Group), now: time.Now}
}

func (r *memGroupRepo) Create(_ context.Context, g domain.Group) (domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g.ID = uuid.New()
	g.CreatedAt = r.now().UTC()
	g.Destinations = slices.Clone(g.Destinations)
	g.Interests = slices.Clone(g.Interests)
	r.groups[g.ID] = g
	return g, nil
}

func (r *memGroupRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[id]
	if !ok {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.GetByID: %w", domain.ErrNotFound)
	}
	g.Destinations = slices.Clone(g.Destinations)
	g.Interests = slices.Clone(g.Interests)
	return g, nil
}

// memMessageRepo is an in-memory MessageRepo.
type memMessageRepo struct {
	mu            sync.RWMutex
	conversations map[string]domain.Conversation
	messages      map[string][]domain.ChatMessage // newest first
}

// NewMemoryMessageRepo returns an in-memory MessageRepo pre-filled with the
// given conversations and messages. Messages for unknown conversations are
// ignored.
func NewMemoryMessageRepo(conversations []domain.Conversation, messages []domain.ChatMessage) MessageRepo {
	r := &memMessageRepo{
		conversations: make(map[string]domain.Conversation, len(conversations)),
		messages:      make(map[string][]domain.ChatMessage, len(conversations)),
	}
	for _, c := range conversations {
		r.conversations[c.ID] = c
	}
	for _, m := range messages {
		if _, ok := r.conversations[m.ConversationID]; ok {
			r.messages[m.ConversationID] = append(r.messages[m.ConversationID], m)
		}
	}
	for id := range r.messages {
		slices.SortStableFunc(r.messages[id], newestFirst)
	}
	return r
}

func newestFirst(a, b domain.ChatMessage) int {
	if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func (r *memMessageRepo) UpsertConversation(_ context.Context, c domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[c.ID] = c
	return nil
}

func (r *memMessageRepo) ListConversations(_ context.Context) ([]domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Conversation, 0, len(r.conversations))
	for _, c := range r.conversations {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b domain.Conversation) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *memMessageRepo) Create(_ context.Context, m domain.ChatMessage) (domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversations[m.ConversationID]; !ok {
		return domain.ChatMessage{}, fmt.Errorf("repo.MessageRepo.Create: %w: conversation %s", domain.ErrNotFound, m.ConversationID)
	}
	list := append([]domain.ChatMessage{m}, r.messages[m.ConversationID]...)
	slices.SortStableFunc(list, newestFirst)
	r.messages[m.ConversationID] = list
	return m, nil
}

func (r *memMessageRepo) ListByConversation(_ context.Context, conversationID string) ([]domain.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.conversations[conversationID]; !ok {
		return nil, fmt.Errorf("repo.MessageRepo.ListByConversation: %w", domain.ErrNotFound)
	}
	out := slices.Clone(r.messages[conversationID])
	if out == nil {
		out = []domain.ChatMessage{}
	}
	return out, nil
}
