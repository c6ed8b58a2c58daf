package domain

import (
	"strings"
	"time"
)

// TempIDPrefix marks a ChatMessage that was inserted optimistically and has
// not been confirmed by the server yet.
const TempIDPrefix = "temp-"

// ChatMessage is a single message in a conversation.
// Lists of messages are kept newest-first.
type ChatMessage struct {
	ID             string    `json:"id" yaml:"id"`
	ConversationID string    `json:"conversation_id" yaml:"conversation_id"`
	Text           string    `json:"text" yaml:"text"`
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
	Sender         string    `json:"sender" yaml:"sender"`
	IsRead         bool      `json:"is_read" yaml:"is_read"`
}

// IsSpeculative reports whether m is an unconfirmed optimistic placeholder.
func (m ChatMessage) IsSpeculative() bool {
	return strings.HasPrefix(m.ID, TempIDPrefix)
}

// Conversation is a chat thread between the current user and one or more
// other members.
type Conversation struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Participants []string `json:"participants" yaml:"participants"`
}

// Interest is a selectable activity tag shown in the wizard.
type Interest struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Emoji string `json:"emoji" yaml:"emoji"`
}
