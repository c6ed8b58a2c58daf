package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

// ListMessages handles GET /conversations/{conversationId}/messages.
// Supports ?page= and ?limit= (defaults: page=1, limit=50, max=100).
// While a send is in flight the first message may be a speculative one
// whose id starts with "temp-".
func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page")
	if err != nil {
		requestError(w, "page must be an integer")
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		requestError(w, "limit must be an integer")
		return
	}
	params := domain.NewPaginationParams(page, limit)

	msgs, err := s.messages.Messages(r.Context(), chi.URLParam(r, "conversationId"))
	if err != nil {
		s.writeServiceError(w, r, err, "conversation not found")
		return
	}

	start, end := params.Window(len(msgs))
	writeJSON(w, http.StatusOK, MessagePage{
		Data: msgs[start:end],
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: len(msgs),
		},
	})
}

// SendMessage handles POST /conversations/{conversationId}/messages.
// Returns 201 with the server-confirmed message, 409 if a send to the same
// conversation is already in flight, and 502 if the send failed (the
// speculative message has been rolled back).
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := s.messages.Send(r.Context(), chi.URLParam(r, "conversationId"), req.Text)
	if err != nil {
		s.writeServiceError(w, r, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// intQuery parses an optional integer query parameter.
// Returns nil when the parameter is absent.
func intQuery(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
