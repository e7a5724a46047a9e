// Package auth issues and verifies admin session tokens and guards
// requests that need one.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/biobalance/admin/config"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// SessionTTL is the lifetime of an issued credential and of its cookie.
const SessionTTL = 7 * 24 * time.Hour

// fallbackSecret is only accepted outside production.
const fallbackSecret = "fallback-secret-key-change-this"

// ErrInvalidToken is returned for tokens that fail signature, algorithm,
// shape or registered-expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Credential is the verified content of a session token.
type Credential struct {
	Subject   string    `json:"username"`
	IsAdmin   bool      `json:"isAdmin"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired is the application-level expiry check. It is separate from the
// registered exp claim that Verify already enforces.
func (c Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

type sessionClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	// SessionExpiresAt is epoch milliseconds.
	SessionExpiresAt int64 `json:"expiresAt"`
	jwt.RegisteredClaims
}

// Verifier signs and validates HS256 session tokens.
type Verifier struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		ttl:    SessionTTL,
		now:    time.Now,
	}
}

// ResolveSecret returns the configured signing key. Without one it falls
// back to a built-in key, which production refuses.
func ResolveSecret(cfg config.Config, logger *zap.Logger) (string, error) {
	if cfg.Auth.JWTSecret != "" {
		return cfg.Auth.JWTSecret, nil
	}
	if cfg.IsProduction() {
		return "", errors.New("JWT_SECRET is required in production")
	}
	logger.Warn("JWT_SECRET not set; using the built-in fallback key")
	return fallbackSecret, nil
}

// Issue creates a token for subject, flagged admin, valid for the TTL.
func (v *Verifier) Issue(subject string) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", errors.New("subject is required")
	}

	now := v.now()
	expiresAt := now.Add(v.ttl)
	claims := sessionClaims{
		Username:         subject,
		IsAdmin:          true,
		SessionExpiresAt: expiresAt.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// Verify validates the token's signature, algorithm, shape and registered
// expiry. Callers still have to check Credential.Expired.
func (v *Verifier) Verify(tokenString string) (Credential, error) {
	claims := sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Credential{}, ErrInvalidToken
	}

	username := strings.TrimSpace(claims.Username)
	if username == "" {
		username = strings.TrimSpace(claims.Subject)
	}
	if username == "" {
		return Credential{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	cred := Credential{
		Subject:   username,
		IsAdmin:   claims.IsAdmin,
		ExpiresAt: time.UnixMilli(claims.SessionExpiresAt),
	}
	if claims.IssuedAt != nil {
		cred.IssuedAt = claims.IssuedAt.Time
	}
	return cred, nil
}
