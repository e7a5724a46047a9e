package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/biobalance/admin/config"
	"github.com/biobalance/admin/internal/auth"
	"github.com/biobalance/admin/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuditRecorder records administrative actions.
type AuditRecorder interface {
	Record(ctx context.Context, kind types.AuditKind, actor string, details map[string]string) types.AuditEvent
}

// AuthHandler provides the login, logout and session endpoints.
type AuthHandler struct {
	cfg          config.AuthConfig
	verifier     *auth.Verifier
	audit        AuditRecorder
	secureCookie bool
	log          *zap.Logger
}

// NewAuthHandler constructs an AuthHandler. secureCookie sets the Secure
// attribute on the session cookie.
func NewAuthHandler(cfg config.AuthConfig, verifier *auth.Verifier, audit AuditRecorder, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		verifier:     verifier,
		audit:        audit,
		secureCookie: secureCookie,
		log:          logger,
	}
}

// AuthRouter registers the session endpoints under /api.
func AuthRouter(r chi.Router, h *AuthHandler) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.Session)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the posted credentials against the configured admin account
// and sets the session cookie on success.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.AdminConfigured() {
		h.log.Error("login attempted without admin credentials configured")
		writeError(w, http.StatusInternalServerError, "authentication is not configured")
		return
	}

	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	username := strings.TrimSpace(req.Username)
	if !h.credentialsMatch(username, req.Password) {
		h.audit.Record(r.Context(), types.AuditLoginFailed, username, map[string]string{"remote_addr": r.RemoteAddr})
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.verifier.Issue(username)
	if err != nil {
		h.log.Error("issue session token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	auth.SetSessionCookie(w, token, h.secureCookie)
	h.audit.Record(r.Context(), types.AuditLoginSucceeded, username, map[string]string{"remote_addr": r.RemoteAddr})
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "logged in"})
}

// Logout deletes the session cookie. The token itself stays valid until it
// expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	actor := ""
	if cred, ok := auth.CredentialFromContext(r.Context()); ok {
		actor = cred.Subject
	}
	auth.ClearSessionCookie(w, h.secureCookie)
	h.audit.Record(r.Context(), types.AuditLogout, actor, nil)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Session returns the credential the guard attached to the request.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	cred, ok := auth.CredentialFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, cred)
}

func (h *AuthHandler) credentialsMatch(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.cfg.AdminUsername)) == 1
	passOK := passwordMatches(h.cfg.AdminPassword, password)
	return userOK && passOK
}

// passwordMatches accepts configured bcrypt hashes as well as plain
// passwords.
func passwordMatches(configured, given string) bool {
	if isBcryptHash(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(given)) == 1
}

func isBcryptHash(s string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
