package types

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one message of a user's conversation with the bot.
type ChatMessage struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Role      ChatRole  `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChatUser summarizes the conversation of one user.
type ChatUser struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	MessageCount int       `json:"messageCount"`
	LastMessage  time.Time `json:"lastMessage"`
}
