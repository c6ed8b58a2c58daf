package domain_test

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name        string
		page, limit *int
		want        domain.PaginationParams
	}{
		{"defaults", nil, nil, domain.PaginationParams{Page: 1, Limit: 50}},
		{"explicit", intPtr(3), intPtr(20), domain.PaginationParams{Page: 3, Limit: 20}},
		{"limit capped", nil, intPtr(500), domain.PaginationParams{Page: 1, Limit: 100}},
		{"non-positive ignored", intPtr(0), intPtr(-1), domain.PaginationParams{Page: 1, Limit: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NewPaginationParams(tt.page, tt.limit))
		})
	}
}

func TestPaginationParams_Window(t *testing.T) {
	tests := []struct {
		name               string
		page, limit, n     int
		wantStart, wantEnd int
	}{
		{"partial last page", 2, 10, 15, 10, 15},
		{"past the end", 2, 10, 5, 5, 5},
		{"first page", 1, 50, 3, 0, 3},
		{"page overflowing the offset", 92233720368547760, 100, 3, 3, 3},
		{"max page", math.MaxInt, 1, 3, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := domain.NewPaginationParams(intPtr(tt.page), intPtr(tt.limit)).Window(tt.n)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestPaginationParams_Offset(t *testing.T) {
	assert.Equal(t, 20, domain.NewPaginationParams(intPtr(3), intPtr(10)).Offset())
	assert.Equal(t, math.MaxInt, domain.NewPaginationParams(intPtr(math.MaxInt), intPtr(100)).Offset())
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"wrapped with detail", fmt.Errorf("svc: %w", fmt.Errorf("remote: %w: Group name is required.", domain.ErrValidation)), "Group name is required."},
		{"bare sentinel", fmt.Errorf("repo: %w", domain.ErrNotFound), "not found"},
		{"foreign error", errors.New("disk on fire"), "disk on fire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Message(tt.err))
		})
	}
}

func TestGroupDraft_Clone(t *testing.T) {
	start := time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC)
	img := "file:///a.jpg"
	d := domain.NewGroupDraft()
	d.ImageRef = &img
	d.StartDate = &start
	d.Destinations = append(d.Destinations, domain.Destination{ID: "miami"})
	d.Interests = append(d.Interests, "karaoke")

	c := d.Clone()
	*c.ImageRef = "changed"
	*c.StartDate = start.AddDate(1, 0, 0)
	c.Destinations[0].ID = "changed"
	c.Interests[0] = "changed"

	assert.Equal(t, "file:///a.jpg", *d.ImageRef)
	assert.Equal(t, start, *d.StartDate)
	assert.Equal(t, "miami", d.Destinations[0].ID)
	assert.Equal(t, "karaoke", d.Interests[0])
}

func TestGroupFromDraft(t *testing.T) {
	d := domain.NewGroupDraft()
	d.Name = "Vegas Trip"
	d.Visibility = domain.VisibilityPrivate

	g := domain.GroupFromDraft(d)

	assert.Equal(t, "Vegas Trip", g.Name)
	assert.Equal(t, domain.VisibilityPrivate, g.Visibility)
	assert.NotNil(t, g.Destinations)
}

func TestChatMessage_IsSpeculative(t *testing.T) {
	assert.True(t, domain.ChatMessage{ID: domain.TempIDPrefix + "abc"}.IsSpeculative())
	assert.False(t, domain.ChatMessage{ID: "abc"}.IsSpeculative())
}
