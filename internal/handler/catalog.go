package handler

import "net/http"

// SearchDestinations handles GET /destinations?q=.
// Matches destinations whose name or country starts with q.
func (s *Server) SearchDestinations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.SearchDestinations(r.URL.Query().Get("q")))
}

// ListInterests handles GET /interests.
func (s *Server) ListInterests(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.ListInterests())
}

// ListConversations handles GET /conversations.
func (s *Server) ListConversations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.ListConversations())
}
