// Package remote is the service boundary the pipelines talk to.
//
// Client is the contract; Backend is the implementation that ships with the
// server. Backend stores data through repo interfaces (in-memory or Postgres)
// and can simulate a flaky mobile network with random latency and failures.
// Failures are returned as wrapped domain sentinels whose message is fit for
// direct display (see domain.Message).
package remote

import (
	"context"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

// Client is the remote API used by the group and message pipelines.
type Client interface {
	// CreateGroup creates a group from a submitted draft.
	// Fails with domain.ErrValidation if the name is blank and with
	// domain.ErrNetwork if the request does not go through.
	CreateGroup(ctx context.Context, draft domain.GroupDraft) (domain.CreateGroupResult, error)

	// SendMessage posts text to a conversation and returns the stored message
	// with its server-assigned ID.
	SendMessage(ctx context.Context, conversationID, text string) (domain.ChatMessage, error)

	// FetchConversationMessages returns a conversation's messages, newest first.
	FetchConversationMessages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
}
