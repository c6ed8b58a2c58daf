package remote

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/nightcrew/backend/internal/domain"
	"github.com/pkordes/nightcrew/backend/internal/repo"
)

// Options tunes the network simulation of a Backend.
type Options struct {
	// Latency is the upper bound of the uniformly random delay added to
	// every call. Zero disables the delay.
	Latency time.Duration

	// FailureRate is the probability in [0, 1] that CreateGroup fails with
	// domain.ErrNetwork.
	FailureRate float64

	// FailSends makes every SendMessage fail with domain.ErrNetwork.
	FailSends bool

	// Sender is recorded as the author of sent messages. Defaults to "me".
	Sender string

	// Rand returns a float in [0, 1). Defaults to math/rand/v2.Float64.
	Rand func() float64

	// Now defaults to time.Now.
	Now func() time.Time
}

// Backend implements Client on top of the repo layer.
type Backend struct {
	groups   repo.GroupRepo
	messages repo.MessageRepo
	opts     Options
	log      *slog.Logger
}

var _ Client = (*Backend)(nil)

// NewBackend constructs a Backend storing groups and messages in the given repos.
func NewBackend(groups repo.GroupRepo, messages repo.MessageRepo, opts Options, log *slog.Logger) *Backend {
	if opts.Sender == "" {
		opts.Sender = "me"
	}
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Backend{groups: groups, messages: messages, opts: opts, log: log}
}

// CreateGroup validates and stores the draft as a new group.
func (b *Backend) CreateGroup(ctx context.Context, draft domain.GroupDraft) (domain.CreateGroupResult, error) {
	if err := b.delay(ctx); err != nil {
		return domain.CreateGroupResult{}, fmt.Errorf("remote.Backend.CreateGroup: %w", err)
	}
	if strings.TrimSpace(draft.Name) == "" {
		return domain.CreateGroupResult{}, fmt.Errorf("remote.Backend.CreateGroup: %w: Group name is required.", domain.ErrValidation)
	}
	if b.opts.FailureRate > 0 && b.opts.Rand() < b.opts.FailureRate {
		b.log.WarnContext(ctx, "simulated network failure", "op", "CreateGroup")
		return domain.CreateGroupResult{}, fmt.Errorf("remote.Backend.CreateGroup: %w: Could not create the group. Check your connection and try again.", domain.ErrNetwork)
	}

	g, err := b.groups.Create(ctx, domain.GroupFromDraft(draft))
	if err != nil {
		return domain.CreateGroupResult{}, fmt.Errorf("remote.Backend.CreateGroup: %w", err)
	}
	b.log.InfoContext(ctx, "group created", "group_id", g.ID, "destinations", len(g.Destinations), "interests", len(g.Interests))
	return domain.CreateGroupResult{Success: true, GroupID: g.ID.String()}, nil
}

// SendMessage stores text as a new message from the configured sender.
func (b *Backend) SendMessage(ctx context.Context, conversationID, text string) (domain.ChatMessage, error) {
	if err := b.delay(ctx); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("remote.Backend.SendMessage: %w", err)
	}
	if b.opts.FailSends {
		b.log.WarnContext(ctx, "simulated network failure", "op", "SendMessage")
		return domain.ChatMessage{}, fmt.Errorf("remote.Backend.SendMessage: %w: Message not sent. Tap to try again.", domain.ErrNetwork)
	}

	m := domain.ChatMessage{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Text:           text,
		Timestamp:      b.opts.Now().UTC(),
		Sender:         b.opts.Sender,
		IsRead:         true,
	}
	stored, err := b.messages.Create(ctx, m)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("remote.Backend.SendMessage: %w", err)
	}
	return stored, nil
}

// FetchConversationMessages lists a conversation's messages, newest first.
func (b *Backend) FetchConversationMessages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	if err := b.delay(ctx); err != nil {
		return nil, fmt.Errorf("remote.Backend.FetchConversationMessages: %w", err)
	}
	msgs, err := b.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("remote.Backend.FetchConversationMessages: %w", err)
	}
	return msgs, nil
}

// delay sleeps for a random fraction of Latency, returning early with
// ctx.Err() if ctx is done first.
func (b *Backend) delay(ctx context.Context) error {
	if b.opts.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(b.opts.Rand() * float64(b.opts.Latency)))
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
