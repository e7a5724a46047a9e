package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/biobalance/admin/internal/store"
	"github.com/biobalance/admin/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserReader is the part of services.UserService the handlers use.
type UserReader interface {
	List(ctx context.Context) ([]types.UserProfile, error)
	Detail(ctx context.Context, id string) (types.UserDetail, error)
}

// UserHandler serves the user list and user detail.
type UserHandler struct {
	users UserReader
	log   *zap.Logger
}

func NewUserHandler(users UserReader, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: logger}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, h *UserHandler) {
	r.Get("/", h.ListUsers)
	r.Get("/{userID}", h.GetUser)
}

type UserListResponse struct {
	Users []types.UserProfile `json:"users"`
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.log.Error("list users", zap.Error(err))
		users = []types.UserProfile{}
	}
	writeJSON(w, http.StatusOK, UserListResponse{Users: users})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	detail, err := h.users.Detail(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error("get user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
