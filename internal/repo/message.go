package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

// MessageRepo defines the persistence operations for conversations and their
// chat messages. Message lists are always ordered newest-first.
type MessageRepo interface {
	// UpsertConversation inserts a conversation or updates its title and
	// participants if the ID already exists.
	UpsertConversation(ctx context.Context, c domain.Conversation) error

	// ListConversations returns all conversations ordered by ID.
	ListConversations(ctx context.Context) ([]domain.Conversation, error)

	// Create inserts a message. Returns domain.ErrNotFound if its
	// conversation does not exist.
	Create(ctx context.Context, m domain.ChatMessage) (domain.ChatMessage, error)

	// ListByConversation returns the messages of a conversation, newest first.
	// Returns domain.ErrNotFound if the conversation does not exist.
	ListByConversation(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
}

// pgMessageRepo is the Postgres implementation of MessageRepo.
type pgMessageRepo struct {
	db db
}

// NewMessageRepo constructs a MessageRepo backed by the provided db connection.
func NewMessageRepo(db db) MessageRepo {
	return &pgMessageRepo{db: db}
}

func (r *pgMessageRepo) UpsertConversation(ctx context.Context, c domain.Conversation) error {
	const q = `
		INSERT INTO conversations (id, title, participants)
		VALUES (@id, @title, @participants)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, participants = EXCLUDED.participants`

	participants := c.Participants
	if participants == nil {
		participants = []string{}
	}
	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": c.ID, "title": c.Title, "participants": participants})
	if err != nil {
		return fmt.Errorf("repo.MessageRepo.UpsertConversation: %w", err)
	}
	return nil
}

func (r *pgMessageRepo) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	const q = `SELECT id, title, participants FROM conversations ORDER BY id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.MessageRepo.ListConversations: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Conversation, error) {
		var c domain.Conversation
		err := row.Scan(&c.ID, &c.Title, &c.Participants)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("repo.MessageRepo.ListConversations: scan: %w", err)
	}
	return out, nil
}

// Create inserts a message row. A missing conversation surfaces as a
// foreign-key violation, which is mapped to domain.ErrNotFound.
func (r *pgMessageRepo) Create(ctx context.Context, m domain.ChatMessage) (domain.ChatMessage, error) {
	const q = `
		INSERT INTO messages (id, conversation_id, body, sender, is_read, sent_at)
		VALUES (@id, @conversation_id, @body, @sender, @is_read, @sent_at)
		RETURNING id, conversation_id, body, sender, is_read, sent_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":              m.ID,
		"conversation_id": m.ConversationID,
		"body":            m.Text,
		"sender":          m.Sender,
		"is_read":         m.IsRead,
		"sent_at":         m.Timestamp,
	})
	result, err := scanMessage(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ChatMessage{}, fmt.Errorf("repo.MessageRepo.Create: %w: conversation %s", domain.ErrNotFound, m.ConversationID)
		}
		return domain.ChatMessage{}, fmt.Errorf("repo.MessageRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgMessageRepo) ListByConversation(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	const exists = `SELECT EXISTS (SELECT 1 FROM conversations WHERE id = @id)`
	const q = `
		SELECT id, conversation_id, body, sender, is_read, sent_at
		FROM messages
		WHERE conversation_id = @conversation_id
		ORDER BY sent_at DESC, id DESC`

	var found bool
	if err := r.db.QueryRow(ctx, exists, pgx.NamedArgs{"id": conversationID}).Scan(&found); err != nil {
		return nil, fmt.Errorf("repo.MessageRepo.ListByConversation: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("repo.MessageRepo.ListByConversation: %w", domain.ErrNotFound)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"conversation_id": conversationID})
	if err != nil {
		return nil, fmt.Errorf("repo.MessageRepo.ListByConversation: %w", err)
	}
	defer rows.Close()

	msgs := []domain.ChatMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.MessageRepo.ListByConversation: scan: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MessageRepo.ListByConversation: rows: %w", err)
	}
	return msgs, nil
}

// scanMessage maps a single messages row into a domain.ChatMessage.
func scanMessage(s scanner) (domain.ChatMessage, error) {
	var m domain.ChatMessage
	err := s.Scan(&m.ID, &m.ConversationID, &m.Text, &m.Sender, &m.IsRead, &m.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChatMessage{}, domain.ErrNotFound
		}
		return domain.ChatMessage{}, err
	}
	m.Timestamp = m.Timestamp.UTC()
	return m, nil
}
