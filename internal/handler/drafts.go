package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/nightcrew/backend/internal/domain"
	"github.com/pkordes/nightcrew/backend/internal/middleware"
	"github.com/pkordes/nightcrew/backend/internal/service"
	"github.com/pkordes/nightcrew/backend/internal/wizard"
)

// CreateDraft handles POST /drafts.
func (s *Server) CreateDraft(w http.ResponseWriter, r *http.Request) {
	id, store := s.drafts.Create()
	writeJSON(w, http.StatusCreated, draftToResponse(id, store.State()))
}

// GetDraft handles GET /drafts/{draftId}.
func (s *Server) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.lookupDraft(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, draftToResponse(id, store.State()))
}

// DeleteDraft handles DELETE /drafts/{draftId}.
func (s *Server) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "draftId"))
	if err != nil {
		notFound(w, "draft not found")
		return
	}
	if err := s.drafts.Delete(id); err != nil {
		s.writeServiceError(w, r, err, "draft not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateDraft handles PATCH /drafts/{draftId}.
// The whole request is validated before any field is written, so a rejected
// request leaves the draft untouched.
func (s *Server) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.lookupDraft(w, r)
	if !ok {
		return
	}
	var req UpdateDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.LinkURL != nil && !hasPremium(r) {
		writeError(w, http.StatusForbidden, "entitlement_required", "Adding a link requires a premium plan.")
		return
	}
	if msg := validateFields(req); msg != "" {
		requestError(w, msg)
		return
	}

	draft, err := store.Update(func(d *domain.GroupDraft) error {
		applyUpdate(req, d)
		if d.StartDate != nil && d.EndDate != nil && dateOnly(*d.EndDate).Before(dateOnly(*d.StartDate)) {
			return fmt.Errorf("%w: End date must not be before start date.", domain.ErrValidation)
		}
		return nil
	})
	if err != nil {
		requestError(w, domain.Message(err))
		return
	}

	writeJSON(w, http.StatusOK, draftToResponse(id, draft))
}

// AddDestination handles POST /drafts/{draftId}/destinations.
func (s *Server) AddDestination(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.lookupDraft(w, r)
	if !ok {
		return
	}
	var req AddDestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	dest, found := s.catalog.Destination(req.ID)
	if !found {
		requestError(w, "unknown destination")
		return
	}
	if err := store.AddDestination(dest); err != nil {
		s.writeServiceError(w, r, err, "draft not found")
		return
	}
	writeJSON(w, http.StatusCreated, draftToResponse(id, store.State()))
}

// RemoveDestination handles DELETE /drafts/{draftId}/destinations/{destinationId}.
// Removing a destination that is not selected is not an error.
func (s *Server) RemoveDestination(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.lookupDraft(w, r)
	if !ok {
		return
	}
	store.RemoveDestination(chi.URLParam(r, "destinationId"))
	writeJSON(w, http.StatusOK, draftToResponse(id, store.State()))
}

// ToggleInterest handles POST /drafts/{draftId}/interests/{interestId}/toggle.
func (s *Server) ToggleInterest(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.lookupDraft(w, r)
	if !ok {
		return
	}
	interestID := chi.URLParam(r, "interestId")
	if !s.catalog.HasInterest(interestID) {
		notFound(w, "interest not found")
		return
	}
	selected, err := store.ToggleInterest(interestID)
	if err != nil {
		s.writeServiceError(w, r, err, "draft not found")
		return
	}
	writeJSON(w, http.StatusOK, ToggleInterestResponse{
		InterestID: interestID,
		Selected:   selected,
		Draft:      draftToResponse(id, store.State()),
	})
}

// ResetDraft handles POST /drafts/{draftId}/reset.
func (s *Server) ResetDraft(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.lookupDraft(w, r)
	if !ok {
		return
	}
	store.Reset()
	writeJSON(w, http.StatusOK, draftToResponse(id, store.State()))
}

// SubmitDraft handles POST /drafts/{draftId}/submit.
// On failure the draft keeps its contents so the client can retry.
func (s *Server) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.lookupDraft(w, r)
	if !ok {
		return
	}

	navigations := 0
	result, err := s.groups.Submit(r.Context(), store, service.NavigatorFunc(func() { navigations++ }))
	if err != nil {
		s.writeServiceError(w, r, err, "draft not found")
		return
	}

	resp := SubmitDraftResponse{Success: result.Success, GroupID: result.GroupID}
	if navigations > 0 {
		resp.Navigation = "back"
	}
	writeJSON(w, http.StatusCreated, resp)
}

// lookupDraft resolves the {draftId} path parameter. It writes a 404 and
// returns ok=false if the ID is malformed or unknown.
func (s *Server) lookupDraft(w http.ResponseWriter, r *http.Request) (uuid.UUID, *wizard.Store, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "draftId"))
	if err != nil {
		notFound(w, "draft not found")
		return uuid.Nil, nil, false
	}
	store, err := s.drafts.Get(id)
	if err != nil {
		s.writeServiceError(w, r, err, "draft not found")
		return uuid.Nil, nil, false
	}
	return id, store, true
}

// hasPremium reports whether the caller's plan unlocks group links.
func hasPremium(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(middleware.EntitlementHeader), "premium")
}

// validateFields checks the length bounds and the visibility value. It
// returns a message for the first violation, or "" if the fields are
// acceptable.
func validateFields(req UpdateDraftRequest) string {
	if req.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*req.Name)) > domain.MaxGroupNameLength {
		return fmt.Sprintf("Group name must be at most %d characters.", domain.MaxGroupNameLength)
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > domain.MaxDescriptionLength {
		return fmt.Sprintf("Description must be at most %d characters.", domain.MaxDescriptionLength)
	}
	if req.Visibility != nil && !domain.Visibility(*req.Visibility).Valid() {
		return "Visibility must be public or private."
	}
	return ""
}

// applyUpdate copies the fields present in req onto d.
func applyUpdate(req UpdateDraftRequest, d *domain.GroupDraft) {
	if req.Name != nil {
		d.Name = strings.TrimSpace(*req.Name)
	}
	if req.ClearImage {
		d.ImageRef = nil
	}
	if req.ImageRef != nil {
		ref := *req.ImageRef
		d.ImageRef = &ref
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.ClearDates {
		d.StartDate, d.EndDate = nil, nil
	}
	if req.StartDate != nil {
		start := req.StartDate.Time
		d.StartDate = &start
	}
	if req.EndDate != nil {
		end := req.EndDate.Time
		d.EndDate = &end
	}
	if req.LinkURL != nil {
		d.LinkURL = strings.TrimSpace(*req.LinkURL)
	}
	if req.Visibility != nil {
		d.Visibility = domain.Visibility(*req.Visibility)
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
