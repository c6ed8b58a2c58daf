package service_test

import (
	"context"
	"sync"

	"github.com/pkordes/nightcrew/backend/internal/domain"
	"github.com/pkordes/nightcrew/backend/internal/remote"
	"github.com/pkordes/nightcrew/backend/internal/service"
)

// mockClient is a hand-written test double for remote.Client.
// Set only the func fields a test needs; calling an unset one panics.
type mockClient struct {
	createGroupFn func(ctx context.Context, draft domain.GroupDraft) (domain.CreateGroupResult, error)
	sendMessageFn func(ctx context.Context, conversationID, text string) (domain.ChatMessage, error)
	fetchFn       func(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
}

var _ remote.Client = (*mockClient)(nil)

func (m *mockClient) CreateGroup(ctx context.Context, draft domain.GroupDraft) (domain.CreateGroupResult, error) {
	return m.createGroupFn(ctx, draft)
}

func (m *mockClient) SendMessage(ctx context.Context, conversationID, text string) (domain.ChatMessage, error) {
	return m.sendMessageFn(ctx, conversationID, text)
}

func (m *mockClient) FetchConversationMessages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	return m.fetchFn(ctx, conversationID)
}

type alert struct{ title, message string }

// recordingNotifier remembers every alert it was asked to show.
type recordingNotifier struct {
	mu     sync.Mutex
	alerts []alert
}

var _ service.Notifier = (*recordingNotifier)(nil)

func (n *recordingNotifier) Alert(_ context.Context, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert{title, message})
}

func (n *recordingNotifier) all() []alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]alert(nil), n.alerts...)
}

// countingNavigator counts Back signals.
type countingNavigator struct {
	mu    sync.Mutex
	backs int
}

func (n *countingNavigator) Back() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.backs++
}

func (n *countingNavigator) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.backs
}
