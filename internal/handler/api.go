package handler

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

// DraftResponse is the wire form of a wizard draft.
type DraftResponse struct {
	ID           openapi_types.UUID   `json:"id"`
	Name         string               `json:"name"`
	ImageRef     *string              `json:"image_ref,omitempty"`
	Description  string               `json:"description"`
	StartDate    *openapi_types.Date  `json:"start_date,omitempty"`
	EndDate      *openapi_types.Date  `json:"end_date,omitempty"`
	Destinations []domain.Destination `json:"destinations"`
	Interests    []string             `json:"interests"`
	LinkURL      string               `json:"link_url"`
	Visibility   string               `json:"visibility"`
}

// UpdateDraftRequest is the body of PATCH /drafts/{draftId}.
// Absent fields are left unchanged. ClearImage and ClearDates unset the
// image and both dates before any new values are applied.
type UpdateDraftRequest struct {
	Name        *string             `json:"name"`
	ImageRef    *string             `json:"image_ref"`
	ClearImage  bool                `json:"clear_image"`
	Description *string             `json:"description"`
	StartDate   *openapi_types.Date `json:"start_date"`
	EndDate     *openapi_types.Date `json:"end_date"`
	ClearDates  bool                `json:"clear_dates"`
	LinkURL     *string             `json:"link_url"`
	Visibility  *string             `json:"visibility"`
}

// AddDestinationRequest is the body of POST /drafts/{draftId}/destinations.
type AddDestinationRequest struct {
	ID string `json:"id"`
}

// ToggleInterestResponse reports the interest's state after a toggle.
type ToggleInterestResponse struct {
	InterestID string        `json:"interest_id"`
	Selected   bool          `json:"selected"`
	Draft      DraftResponse `json:"draft"`
}

// SubmitDraftResponse is returned when a group was created.
// Navigation is "back" when the client should leave the wizard.
type SubmitDraftResponse struct {
	Success    bool   `json:"success"`
	GroupID    string `json:"group_id"`
	Navigation string `json:"navigation,omitempty"`
}

// SendMessageRequest is the body of POST /conversations/{conversationId}/messages.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// MessagePage is one page of a conversation, newest first.
type MessagePage struct {
	Data       []domain.ChatMessage `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

// draftToResponse converts a domain.GroupDraft into its wire form.
func draftToResponse(id openapi_types.UUID, d domain.GroupDraft) DraftResponse {
	resp := DraftResponse{
		ID:           id,
		Name:         d.Name,
		ImageRef:     d.ImageRef,
		Description:  d.Description,
		Destinations: d.Destinations,
		Interests:    d.Interests,
		LinkURL:      d.LinkURL,
		Visibility:   string(d.Visibility),
	}
	if d.StartDate != nil {
		resp.StartDate = &openapi_types.Date{Time: *d.StartDate}
	}
	if d.EndDate != nil {
		resp.EndDate = &openapi_types.Date{Time: *d.EndDate}
	}
	return resp
}
