// Package seed loads the static catalogue that backs the simulated backend:
// pickable destinations and interests, plus demo conversations and messages.
package seed

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the parsed contents of catalog.yaml.
type Catalog struct {
	Destinations  []domain.Destination  `yaml:"destinations"`
	Interests     []domain.Interest     `yaml:"interests"`
	Conversations []domain.Conversation `yaml:"conversations"`
	Messages      []domain.ChatMessage  `yaml:"messages"`
}

// Load parses the embedded catalogue.
func Load() (Catalog, error) {
	return Parse(catalogYAML)
}

// Parse decodes a catalogue document and checks that every message belongs
// to a declared conversation and that IDs are unique.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("seed.Parse: %w", err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, fmt.Errorf("seed.Parse: %w", err)
	}
	return c, nil
}

func (c Catalog) validate() error {
	if err := uniqueIDs("destination", c.Destinations, func(d domain.Destination) string { return d.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("interest", c.Interests, func(i domain.Interest) string { return i.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("conversation", c.Conversations, func(cv domain.Conversation) string { return cv.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("message", c.Messages, func(m domain.ChatMessage) string { return m.ID }); err != nil {
		return err
	}
	for _, m := range c.Messages {
		if _, ok := c.Conversation(m.ConversationID); !ok {
			return fmt.Errorf("message %s: unknown conversation %q", m.ID, m.ConversationID)
		}
	}
	return nil
}

func uniqueIDs[T any](kind string, items []T, id func(T) string) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := id(it)
		if k == "" {
			return fmt.Errorf("%s with empty id", kind)
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("duplicate %s id %q", kind, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Conversation looks up a conversation by ID.
func (c Catalog) Conversation(id string) (domain.Conversation, bool) {
	i := slices.IndexFunc(c.Conversations, func(cv domain.Conversation) bool { return cv.ID == id })
	if i < 0 {
		return domain.Conversation{}, false
	}
	return c.Conversations[i], true
}

// Destination looks up a destination by ID.
func (c Catalog) Destination(id string) (domain.Destination, bool) {
	i := slices.IndexFunc(c.Destinations, func(d domain.Destination) bool { return d.ID == id })
	if i < 0 {
		return domain.Destination{}, false
	}
	return c.Destinations[i], true
}

// HasInterest reports whether id is a known interest.
func (c Catalog) HasInterest(id string) bool {
	return slices.ContainsFunc(c.Interests, func(i domain.Interest) bool { return i.ID == id })
}

// SearchDestinations returns destinations whose name or country starts with
// query, case-insensitively, in catalogue order. An empty query matches all.
func (c Catalog) SearchDestinations(query string) []domain.Destination {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []domain.Destination{}
	for _, d := range c.Destinations {
		if q == "" ||
			strings.HasPrefix(strings.ToLower(d.Name), q) ||
			strings.HasPrefix(strings.ToLower(d.Country), q) {
			out = append(out, d)
		}
	}
	return out
}

// ListInterests returns every interest in catalogue order.
func (c Catalog) ListInterests() []domain.Interest {
	return slices.Clone(c.Interests)
}

// ListConversations returns every conversation in catalogue order.
func (c Catalog) ListConversations() []domain.Conversation {
	return slices.Clone(c.Conversations)
}
