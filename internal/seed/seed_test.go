package seed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/nightcrew/backend/internal/seed"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	c, err := seed.Load()
	require.NoError(t, err)

	assert.Len(t, c.Destinations, 15)
	assert.Len(t, c.Interests, 10)
	assert.NotEmpty(t, c.Conversations)
	assert.NotEmpty(t, c.Messages)
	for _, m := range c.Messages {
		assert.False(t, m.Timestamp.IsZero(), "message %s has a timestamp", m.ID)
	}

	vegas, ok := c.Destination("las-vegas")
	require.True(t, ok)
	assert.Equal(t, "Las Vegas", vegas.Name)
	assert.Equal(t, "🇺🇸", vegas.Flag)
	assert.True(t, c.HasInterest("karaoke"))
	assert.False(t, c.HasInterest("knitting"))
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed yaml", "destinations: [\n"},
		{"duplicate destination", "destinations:\n  - {id: a, name: A}\n  - {id: a, name: B}\n"},
		{"empty interest id", "interests:\n  - {label: Nothing}\n"},
		{"orphan message", "conversations:\n  - {id: c1, title: One}\nmessages:\n  - {id: m1, conversation_id: c2, text: hi}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestCatalog_SearchDestinations(t *testing.T) {
	c, err := seed.Load()
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{"las", []string{"las-vegas"}},
		{"LAS", []string{"las-vegas"}},
		{"spain", []string{"ibiza", "barcelona"}},
		{"  mi ", []string{"miami"}},
		{"atlantis", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := c.SearchDestinations(tt.query)
			ids := []string{}
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	assert.Len(t, c.SearchDestinations(""), len(c.Destinations), "empty query matches everything")
}

func TestCatalog_ListsAreCopies(t *testing.T) {
	c, err := seed.Load()
	require.NoError(t, err)

	interests := c.ListInterests()
	interests[0].Label = "changed"
	convs := c.ListConversations()
	convs[0].Title = "changed"

	assert.NotEqual(t, "changed", c.Interests[0].Label)
	assert.NotEqual(t, "changed", c.Conversations[0].Title)
}
