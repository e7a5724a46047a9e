package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/biobalance/admin/types"
	"github.com/google/uuid"
)

// ChatRepository reads chat_messages.
type ChatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

const chatColumns = `id, user_id, role, COALESCE(content, ''), created_at`

// List returns messages newest first. A non-positive limit returns all.
func (r *ChatRepository) List(ctx context.Context, limit int) ([]types.ChatMessage, error) {
	const query = `
		SELECT ` + chatColumns + `
		FROM chat_messages
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limitArg(limit))
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

// ListByUser returns one user's conversation, oldest first.
func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]types.ChatMessage, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []types.ChatMessage{}, nil
	}
	const query = `
		SELECT ` + chatColumns + `
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

// ListSince returns every message created at or after since.
func (r *ChatRepository) ListSince(ctx context.Context, since time.Time) ([]types.ChatMessage, error) {
	const query = `
		SELECT ` + chatColumns + `
		FROM chat_messages
		WHERE created_at >= $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

// Summaries returns one row per user that has messages, most recent
// conversation first. Email is left empty.
func (r *ChatRepository) Summaries(ctx context.Context) ([]types.ChatUser, error) {
	const query = `
		SELECT user_id, COUNT(1), MAX(created_at)
		FROM chat_messages
		GROUP BY user_id
		ORDER BY MAX(created_at) DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]types.ChatUser, 0)
	for rows.Next() {
		var user types.ChatUser
		if err := rows.Scan(&user.UserID, &user.MessageCount, &user.LastMessage); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func scanMessages(rows *sql.Rows) ([]types.ChatMessage, error) {
	defer rows.Close()

	messages := make([]types.ChatMessage, 0)
	for rows.Next() {
		var msg types.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.UserID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
