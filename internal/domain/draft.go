// Package domain contains the core data types for the nightcrew backend.
// This package has no dependencies on other internal packages and is imported
// by every layer (wizard, cache, service, repo, handler).
package domain

import (
	"slices"
	"time"
)

const (
	// MaxDestinations is the most destinations a group draft can hold.
	MaxDestinations = 10
	// MaxInterests is the most interests a group draft can hold.
	MaxInterests = 5
	// MaxGroupNameLength bounds the group name at the HTTP edge.
	MaxGroupNameLength = 60
	// MaxDescriptionLength bounds the group description at the HTTP edge.
	MaxDescriptionLength = 500
)

// Visibility controls who can discover a group.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the known visibilities.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Destination is a city a group plans to visit.
// Identity is determined by ID; Flag is the country's flag emoji.
type Destination struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Country string `json:"country" yaml:"country"`
	Flag    string `json:"flag" yaml:"flag"`
}

// GroupDraft is the in-progress state of the group-creation wizard.
// ImageRef, StartDate and EndDate are nil until the user picks them.
type GroupDraft struct {
	Name         string        `json:"name"`
	ImageRef     *string       `json:"image_ref,omitempty"`
	Description  string        `json:"description"`
	StartDate    *time.Time    `json:"start_date,omitempty"`
	EndDate      *time.Time    `json:"end_date,omitempty"`
	Destinations []Destination `json:"destinations"`
	Interests    []string      `json:"interests"`
	LinkURL      string        `json:"link_url"`
	Visibility   Visibility    `json:"visibility"`
}

// NewGroupDraft returns a draft with every field at its default:
// empty strings, nil dates, empty sequences and public visibility.
func NewGroupDraft() GroupDraft {
	return GroupDraft{
		Destinations: []Destination{},
		Interests:    []string{},
		Visibility:   VisibilityPublic,
	}
}

// Clone returns a deep copy of d so the copy shares no slices or pointers
// with the original.
func (d GroupDraft) Clone() GroupDraft {
	out := d
	out.ImageRef = clonePtr(d.ImageRef)
	out.StartDate = clonePtr(d.StartDate)
	out.EndDate = clonePtr(d.EndDate)
	out.Destinations = slices.Clone(d.Destinations)
	if out.Destinations == nil {
		out.Destinations = []Destination{}
	}
	out.Interests = slices.Clone(d.Interests)
	if out.Interests == nil {
		out.Interests = []string{}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
