// Package session carries the authenticated caller explicitly through
// context.Context and decides admin access with a three-state gate.
package session

import (
	"context"
	"time"

	"hotel/shared/constant"
)

type contextKey struct{}

// Session is the caller identity resolved from an access token.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenID   string    `json:"token_id"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) IsAdmin() bool {
	return s.Role == constant.RoleAdmin || s.Role == constant.RoleSuperAdmin
}

// TTL is how long the session remains valid from now. Never negative.
func (s Session) TTL(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() || !s.ExpiresAt.After(now) {
		return 0
	}

	return s.ExpiresAt.Sub(now)
}

// WithSession stores the session and mirrors its fields under the
// per-field context keys services read for audit columns.
func WithSession(ctx context.Context, sess Session) context.Context {
	ctx = context.WithValue(ctx, contextKey{}, sess)
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, sess.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, sess.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, sess.Role)
	ctx = context.WithValue(ctx, constant.ContextKeyTokenID, sess.TokenID)

	return ctx
}

func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(Session)
	if !ok || sess.UserID == constant.Empty {
		return Session{}, false
	}

	return sess, true
}
