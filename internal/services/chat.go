package services

import (
	"context"
	"time"

	"github.com/biobalance/admin/types"
)

// ChatRepository defines read operations for chat messages.
type ChatRepository interface {
	List(ctx context.Context, limit int) ([]types.ChatMessage, error)
	ListByUser(ctx context.Context, userID string) ([]types.ChatMessage, error)
	ListSince(ctx context.Context, since time.Time) ([]types.ChatMessage, error)
	Summaries(ctx context.Context) ([]types.ChatUser, error)
}

// ChatService exposes conversations with the bot.
type ChatService struct {
	repo  ChatRepository
	users UserRepository
}

func NewChatService(repo ChatRepository, users UserRepository) *ChatService {
	return &ChatService{repo: repo, users: users}
}

// Users returns one summary per user with messages. Users without a
// profile email are labelled by a shortened id.
func (s *ChatService) Users(ctx context.Context) ([]types.ChatUser, error) {
	chatUsers, err := s.repo.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(chatUsers))
	for _, u := range chatUsers {
		ids = append(ids, u.UserID)
	}
	owners, err := summaries(ctx, s.users, distinct(ids))
	if err != nil {
		return nil, err
	}

	for i := range chatUsers {
		if owner, ok := owners[chatUsers[i].UserID]; ok && owner.Email != "" {
			chatUsers[i].Email = owner.Email
			continue
		}
		chatUsers[i].Email = fallbackLabel(chatUsers[i].UserID)
	}
	return chatUsers, nil
}

// Messages returns the user's conversation, oldest first.
func (s *ChatService) Messages(ctx context.Context, userID string) ([]types.ChatMessage, error) {
	return s.repo.ListByUser(ctx, userID)
}

func fallbackLabel(userID string) string {
	if len(userID) > 8 {
		userID = userID[:8] + "..."
	}
	return "user " + userID
}
