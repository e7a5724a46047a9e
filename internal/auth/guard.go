package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// CookieName is the session cookie carrying the signed token.
	CookieName = "admin_session"

	// LoginPath is where unauthenticated browsers are sent.
	LoginPath = "/login"
)

// publicPrefixes are served without a session.
var publicPrefixes = []string{
	"/login",
	"/api/login",
	"/static/",
	"/healthz",
}

type ctxKey string

const credentialKey ctxKey = "credential"

// CredentialFromContext returns the credential placed by the guard.
func CredentialFromContext(ctx context.Context) (Credential, bool) {
	cred, ok := ctx.Value(credentialKey).(Credential)
	return cred, ok
}

// WithCredential returns a copy of ctx carrying cred.
func WithCredential(ctx context.Context, cred Credential) context.Context {
	return context.WithValue(ctx, credentialKey, cred)
}

// Guard rejects requests without a valid, unexpired session cookie.
type Guard struct {
	verifier *Verifier
	log      *zap.Logger
	now      func() time.Time
}

func NewGuard(verifier *Verifier, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		verifier: verifier,
		log:      logger,
		now:      time.Now,
	}
}

// Authenticate returns the credential carried by r, if any is valid now.
func (g *Guard) Authenticate(r *http.Request) (Credential, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return Credential{}, false
	}
	cred, err := g.verifier.Verify(cookie.Value)
	if err != nil {
		g.log.Debug("session rejected", zap.String("path", r.URL.Path), zap.Error(err))
		return Credential{}, false
	}
	if cred.Expired(g.now()) {
		g.log.Debug("session expired", zap.String("path", r.URL.Path), zap.String("subject", cred.Subject))
		return Credential{}, false
	}
	return cred, true
}

// Middleware forwards authenticated requests unchanged apart from the
// credential in the context. Others are redirected to the login page, or
// get 401 when the caller only accepts JSON.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cred, ok := g.Authenticate(r)
		if !ok {
			if wantsJSON(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCredential(r.Context(), cred)))
	})
}

// IsPublicPath reports whether p skips the session check: the login page
// and API, static assets and the health probe. A dotted last segment marks
// an asset only outside /api/.
func IsPublicPath(p string) bool {
	for _, prefix := range publicPrefixes {
		if p == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(p, prefix) {
			return true
		}
	}
	if p == "/api" || strings.HasPrefix(p, "/api/") {
		return false
	}
	return strings.Contains(path.Base(p), ".")
}

// SetSessionCookie stores token in the session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
