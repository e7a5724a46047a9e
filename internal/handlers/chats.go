package handlers

import (
	"context"
	"net/http"

	"github.com/biobalance/admin/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ChatReader interface {
	Users(ctx context.Context) ([]types.ChatUser, error)
	Messages(ctx context.Context, userID string) ([]types.ChatMessage, error)
}

// ChatHandler serves bot conversations.
type ChatHandler struct {
	chats ChatReader
	log   *zap.Logger
}

func NewChatHandler(chats ChatReader, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chats: chats, log: logger}
}

// ChatRouter registers chat routes on the given router.
func ChatRouter(r chi.Router, h *ChatHandler) {
	r.Get("/users", h.ListUsers)
	r.Get("/{userID}", h.ListMessages)
}

type ChatUsersResponse struct {
	Users []types.ChatUser `json:"users"`
}

type ChatMessagesResponse struct {
	Messages []types.ChatMessage `json:"messages"`
}

func (h *ChatHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.chats.Users(r.Context())
	if err != nil {
		h.log.Error("list chat users", zap.Error(err))
		users = []types.ChatUser{}
	}
	writeJSON(w, http.StatusOK, ChatUsersResponse{Users: users})
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chats.Messages(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.log.Error("list chat messages", zap.Error(err))
		messages = []types.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, ChatMessagesResponse{Messages: messages})
}
