package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/nightcrew/backend/internal/domain"
	"github.com/pkordes/nightcrew/backend/internal/handler"
	"github.com/pkordes/nightcrew/backend/internal/seed"
	"github.com/pkordes/nightcrew/backend/internal/service"
	"github.com/pkordes/nightcrew/backend/internal/wizard"
)

// mockGroupSubmitter is a hand-written test double for handler.GroupSubmitter.
type mockGroupSubmitter struct {
	submitFn func(ctx context.Context, store *wizard.Store, nav service.Navigator) (domain.CreateGroupResult, error)
}

var _ handler.GroupSubmitter = (*mockGroupSubmitter)(nil)

func (m *mockGroupSubmitter) Submit(ctx context.Context, store *wizard.Store, nav service.Navigator) (domain.CreateGroupResult, error) {
	return m.submitFn(ctx, store, nav)
}

// mockMessageServicer is a hand-written test double for handler.MessageServicer.
type mockMessageServicer struct {
	messagesFn func(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
	sendFn     func(ctx context.Context, conversationID, text string) (domain.ChatMessage, error)
}

var _ handler.MessageServicer = (*mockMessageServicer)(nil)

func (m *mockMessageServicer) Messages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	return m.messagesFn(ctx, conversationID)
}

func (m *mockMessageServicer) Send(ctx context.Context, conversationID, text string) (domain.ChatMessage, error) {
	return m.sendFn(ctx, conversationID, text)
}

var (
	_ handler.DraftRegistry = (*wizard.Registry)(nil)
	_ handler.Catalog       = seed.Catalog{}
)

// testServer bundles a Server with the collaborators tests inspect.
type testServer struct {
	srv      *handler.Server
	drafts   *wizard.Registry
	groups   *mockGroupSubmitter
	messages *mockMessageServicer
}

// newTestServer builds a Server over a real draft registry and the embedded
// catalogue. Service doubles start empty; tests set the funcs they need.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	catalog, err := seed.Load()
	require.NoError(t, err)

	ts := &testServer{
		drafts:   wizard.NewRegistry(nil),
		groups:   &mockGroupSubmitter{},
		messages: &mockMessageServicer{},
	}
	ts.srv = handler.NewServer(ts.drafts, ts.groups, ts.messages, catalog, []byte("openapi: 3.0.3\n"), nil)
	return ts
}

// do sends a request with an optional JSON body through the router.
func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals the recorded JSON body into T.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

// requireErrorCode asserts the status and the error code of an error response.
func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) handler.ErrorDetail {
	t.Helper()
	require.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
	body := decode[handler.ErrorResponse](t, rec)
	require.Equal(t, code, body.Error.Code)
	return body.Error
}

// createDraft creates a draft through the API and returns its ID.
func (ts *testServer) createDraft(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/drafts", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[handler.DraftResponse](t, rec).ID.String()
}
