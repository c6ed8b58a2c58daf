// Package handler implements the HTTP handlers for the nightcrew API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, drafts.go, messages.go, catalog.go) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/nightcrew/backend/internal/domain"
	"github.com/pkordes/nightcrew/backend/internal/service"
	"github.com/pkordes/nightcrew/backend/internal/wizard"
)

// DraftRegistry owns the wizard sessions. Defined here, in the consumer
// package, so handler tests can inject a double.
type DraftRegistry interface {
	Create() (uuid.UUID, *wizard.Store)
	Get(id uuid.UUID) (*wizard.Store, error)
	Delete(id uuid.UUID) error
}

// GroupSubmitter submits a finished draft.
type GroupSubmitter interface {
	Submit(ctx context.Context, store *wizard.Store, nav service.Navigator) (domain.CreateGroupResult, error)
}

// MessageServicer reads and sends chat messages.
type MessageServicer interface {
	Messages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
	Send(ctx context.Context, conversationID, text string) (domain.ChatMessage, error)
}

// Catalog is the read-only list of pickable destinations and interests and
// the known conversations.
type Catalog interface {
	SearchDestinations(query string) []domain.Destination
	Destination(id string) (domain.Destination, bool)
	ListInterests() []domain.Interest
	HasInterest(id string) bool
	ListConversations() []domain.Conversation
}

// Server implements every API endpoint.
type Server struct {
	drafts   DraftRegistry
	groups   GroupSubmitter
	messages MessageServicer
	catalog  Catalog
	openAPI  []byte
	log      *slog.Logger
	router   chi.Router
}

// NewServer constructs the Server with all its dependencies.
// openAPI is served verbatim at GET /openapi.yaml.
func NewServer(drafts DraftRegistry, groups GroupSubmitter, messages MessageServicer, catalog Catalog, openAPI []byte, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		drafts:   drafts,
		groups:   groups,
		messages: messages,
		catalog:  catalog,
		openAPI:  openAPI,
		log:      log,
	}
	s.router = s.routes()
	return s
}

// Routes returns the chi router for every endpoint. Cross-cutting middleware
// (request IDs, logging, CORS, body limits) is applied by the caller.
func (s *Server) Routes() chi.Router {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/destinations", s.SearchDestinations)
	r.Get("/interests", s.ListInterests)
	r.Get("/conversations", s.ListConversations)

	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", s.CreateDraft)
		r.Route("/{draftId}", func(r chi.Router) {
			r.Get("/", s.GetDraft)
			r.Patch("/", s.UpdateDraft)
			r.Delete("/", s.DeleteDraft)
			r.Post("/destinations", s.AddDestination)
			r.Delete("/destinations/{destinationId}", s.RemoveDestination)
			r.Post("/interests/{interestId}/toggle", s.ToggleInterest)
			r.Post("/reset", s.ResetDraft)
			r.Post("/submit", s.SubmitDraft)
		})
	})

	r.Route("/conversations/{conversationId}/messages", func(r chi.Router) {
		r.Get("/", s.ListMessages)
		r.Post("/", s.SendMessage)
	})

	return r
}

// ServeHTTP lets a Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
