package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hotel/shared/constant"
	"hotel/shared/session"
)

func TestGate_Resolve(t *testing.T) {
	admin := &session.Session{UserID: "u-1", Role: constant.RoleAdmin}
	superAdmin := &session.Session{UserID: "u-2", Role: constant.RoleSuperAdmin}
	guest := &session.Session{UserID: "u-3", Role: constant.RoleUser}

	tests := []struct {
		name         string
		requireAdmin bool
		sess         *session.Session
		wantState    session.State
		wantReason   string
	}{
		{name: "no session is denied", requireAdmin: true, sess: nil, wantState: session.StateDenied, wantReason: session.ReasonSignedOut},
		{name: "empty user id is denied", requireAdmin: true, sess: &session.Session{}, wantState: session.StateDenied, wantReason: session.ReasonSignedOut},
		{name: "guest on admin gate is denied", requireAdmin: true, sess: guest, wantState: session.StateDenied, wantReason: session.ReasonNotAdmin},
		{name: "admin is authorized", requireAdmin: true, sess: admin, wantState: session.StateAuthorized},
		{name: "superadmin is authorized", requireAdmin: true, sess: superAdmin, wantState: session.StateAuthorized},
		{name: "guest on member gate is authorized", requireAdmin: false, sess: guest, wantState: session.StateAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := session.NewGate(tt.requireAdmin)
			assert.Equal(t, session.StatePending, gate.State())

			assert.Equal(t, tt.wantState, gate.Resolve(tt.sess))
			assert.Equal(t, tt.wantReason, gate.Reason())
		})
	}
}

func TestGate_DeniedIsTerminal(t *testing.T) {
	gate := session.NewGate(true)

	assert.Equal(t, session.StateDenied, gate.Resolve(nil))
	assert.Equal(t, session.StateDenied, gate.Resolve(&session.Session{UserID: "u-1", Role: constant.RoleAdmin}))
	assert.Equal(t, "/login?message=Please+sign+in+to+continue", gate.LoginRedirect())
}

func TestGate_LoginRedirectOnlyWhenDenied(t *testing.T) {
	gate := session.NewGate(true)
	assert.Empty(t, gate.LoginRedirect())

	gate.Resolve(&session.Session{UserID: "u-1", Role: constant.RoleAdmin})
	assert.Empty(t, gate.LoginRedirect())
}

func TestWithSession(t *testing.T) {
	sess := session.Session{UserID: "u-1", Email: "a@b.c", Role: constant.RoleUser, TokenID: "t-1"}
	ctx := session.WithSession(context.Background(), sess)

	got, ok := session.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, sess, got)
	assert.Equal(t, "u-1", ctx.Value(constant.ContextKeyUserID))
	assert.Equal(t, "t-1", ctx.Value(constant.ContextKeyTokenID))

	_, ok = session.FromContext(context.Background())
	assert.False(t, ok)
}

func TestSession_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Hour, session.Session{ExpiresAt: now.Add(time.Hour)}.TTL(now))
	assert.Zero(t, session.Session{ExpiresAt: now.Add(-time.Hour)}.TTL(now))
	assert.Zero(t, session.Session{}.TTL(now))
}
