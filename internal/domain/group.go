package domain

import (
	"time"

	"github.com/google/uuid"
)

// Group is a confirmed meetup group created from a GroupDraft.
type Group struct {
	ID           uuid.UUID
	Name         string
	ImageRef     *string
	Description  string
	StartDate    *time.Time
	EndDate      *time.Time
	Destinations []Destination
	Interests    []string
	LinkURL      string
	Visibility   Visibility
	CreatedAt    time.Time
}

// GroupFromDraft copies the submitted draft fields into a new, unsaved Group.
func GroupFromDraft(d GroupDraft) Group {
	c := d.Clone()
	return Group{
		Name:         c.Name,
		ImageRef:     c.ImageRef,
		Description:  c.Description,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		Destinations: c.Destinations,
		Interests:    c.Interests,
		LinkURL:      c.LinkURL,
		Visibility:   c.Visibility,
	}
}

// CreateGroupResult is the response of the remote createGroup call.
// GroupID is empty when Success is false.
type CreateGroupResult struct {
	Success bool   `json:"success"`
	GroupID string `json:"group_id,omitempty"`
}
