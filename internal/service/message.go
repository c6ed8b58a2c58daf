package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/nightcrew/backend/internal/cache"
	"github.com/pkordes/nightcrew/backend/internal/domain"
	"github.com/pkordes/nightcrew/backend/internal/mutation"
	"github.com/pkordes/nightcrew/backend/internal/remote"
)

// MessageOptions tunes a MessageService.
type MessageOptions struct {
	// RefetchOnSettle reloads the conversation in the background after each
	// successful send, so out-of-band writes that raced the send are not lost.
	RefetchOnSettle bool

	// Sender is the author shown on speculative messages. Defaults to "me".
	Sender string

	// Now defaults to time.Now.
	Now func() time.Time
}

// MessageService reads conversations through the shared cache and sends
// messages with optimistic local visibility.
type MessageService struct {
	client   remote.Client
	cache    *cache.Cache[[]domain.ChatMessage]
	guard    *mutation.Guard
	notifier Notifier
	log      *slog.Logger
	opts     MessageOptions
}

// NewMessageService constructs a MessageService.
func NewMessageService(
	client remote.Client,
	c *cache.Cache[[]domain.ChatMessage],
	guard *mutation.Guard,
	notifier Notifier,
	log *slog.Logger,
	opts MessageOptions,
) *MessageService {
	if opts.Sender == "" {
		opts.Sender = "me"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &MessageService{client: client, cache: c, guard: guard, notifier: notifier, log: log, opts: opts}
}

// MessagesKey is the cache key holding a conversation's messages.
func MessagesKey(conversationID string) string {
	return "messages:" + conversationID
}

// Messages returns a conversation's messages, newest first, loading them from
// the remote boundary on a cache miss. The list may contain a speculative
// message while a send is in flight.
func (s *MessageService) Messages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	msgs, err := s.cache.Fetch(ctx, MessagesKey(conversationID), s.fetcher(conversationID))
	if err != nil {
		return nil, fmt.Errorf("service.MessageService.Messages: %w", err)
	}
	return slices.Clone(msgs), nil
}

// Send posts text to a conversation.
//
// Before the remote call starts, a speculative message with a temp- ID is
// prepended to the cached list and any in-flight read of that list is
// cancelled. On success the speculative entry is replaced in place by the
// server's message; if the conversation was not cached before the send, it is
// dropped instead so the next read loads the full history. On failure the list is restored to exactly what it was
// before the call and the user is alerted once.
//
// At most one send per conversation may be in flight; a concurrent Send
// returns domain.ErrConflict without touching the cache. The remote call is
// detached from ctx cancellation and always runs to completion.
func (s *MessageService) Send(ctx context.Context, conversationID, text string) (domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return domain.ChatMessage{}, fmt.Errorf("service.MessageService.Send: %w: Message text is required.", domain.ErrValidation)
	}

	speculative := domain.ChatMessage{
		ID:             domain.TempIDPrefix + uuid.NewString(),
		ConversationID: conversationID,
		Text:           text,
		Timestamp:      s.opts.Now().UTC(),
		Sender:         s.opts.Sender,
		IsRead:         true,
	}

	m := mutation.Optimistic[[]domain.ChatMessage, domain.ChatMessage]{
		Key: MessagesKey(conversationID),
		Apply: func(cur []domain.ChatMessage, _ bool) []domain.ChatMessage {
			return prepend(speculative, cur)
		},
		Commit: func(ctx context.Context) (domain.ChatMessage, error) {
			return s.client.SendMessage(context.WithoutCancel(ctx), conversationID, text)
		},
		Reconcile: func(cur []domain.ChatMessage, _ bool, confirmed domain.ChatMessage) []domain.ChatMessage {
			return replace(cur, speculative.ID, confirmed)
		},
		Observe: observer(s.log),
	}
	if s.opts.RefetchOnSettle {
		m.Refetch = s.fetcher(conversationID)
	}

	msg, err := mutation.Run(ctx, s.cache, s.guard, m)
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.notifier.Alert(ctx, "Message not sent", domain.Message(err))
		}
		return domain.ChatMessage{}, fmt.Errorf("service.MessageService.Send: %w", err)
	}
	return msg, nil
}

func (s *MessageService) fetcher(conversationID string) cache.FetchFunc[[]domain.ChatMessage] {
	return func(ctx context.Context) ([]domain.ChatMessage, error) {
		return s.client.FetchConversationMessages(ctx, conversationID)
	}
}

// prepend returns a new slice with m in front of list; list is not modified.
func prepend(m domain.ChatMessage, list []domain.ChatMessage) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(list)+1)
	out = append(out, m)
	return append(out, list...)
}

// replace returns a copy of list with the message tempID swapped for
// confirmed in place, or confirmed prepended if tempID is gone.
func replace(list []domain.ChatMessage, tempID string, confirmed domain.ChatMessage) []domain.ChatMessage {
	i := slices.IndexFunc(list, func(m domain.ChatMessage) bool { return m.ID == tempID })
	if i < 0 {
		return prepend(confirmed, list)
	}
	out := slices.Clone(list)
	out[i] = confirmed
	return out
}
