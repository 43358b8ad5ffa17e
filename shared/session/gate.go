package session

import (
	"net/url"

	"hotel/shared/constant"
)

type State int

const (
	StatePending State = iota
	StateAuthorized
	StateDenied
)

const (
	ReasonSignedOut = "Please sign in to continue"
	ReasonNotAdmin  = "Administrator access is required"
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAuthorized:
		return "authorized"
	case StateDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Gate starts pending and resolves exactly once. A denied gate stays
// denied; the caller must sign in again, which yields a new gate.
type Gate struct {
	requireAdmin bool
	state        State
	reason       string
}

func NewGate(requireAdmin bool) *Gate {
	return &Gate{requireAdmin: requireAdmin, state: StatePending}
}

func (g *Gate) Resolve(sess *Session) State {
	if g.state != StatePending {
		return g.state
	}

	switch {
	case sess == nil || sess.UserID == constant.Empty:
		g.state = StateDenied
		g.reason = ReasonSignedOut
	case g.requireAdmin && !sess.IsAdmin():
		g.state = StateDenied
		g.reason = ReasonNotAdmin
	default:
		g.state = StateAuthorized
	}

	return g.state
}

func (g *Gate) State() State {
	return g.state
}

func (g *Gate) Reason() string {
	return g.reason
}

// LoginRedirect is the login route carrying the denial reason.
func (g *Gate) LoginRedirect() string {
	if g.state != StateDenied {
		return constant.Empty
	}

	return constant.LoginRoute + "?message=" + url.QueryEscape(g.reason)
}
