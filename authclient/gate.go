package authclient

import (
	"context"
	"sync"

	"salesops-auth/models"
)

type Decision int

const (
	Hidden Decision = iota
	ShowModal
)

func (d Decision) String() string {
	if d == ShowModal {
		return "show"
	}
	return "hidden"
}

// Decide reports whether the blocking password-change prompt must be shown:
// a user is signed in, a change is pending, and the session is not the
// admin master override.
func Decide(s Snapshot) Decision {
	if s.User == nil {
		return Hidden
	}
	if !s.IsFirstLogin && !s.RequirePasswordChange {
		return Hidden
	}
	if s.LoginType == models.LoginTypeAdminMaster {
		return Hidden
	}
	return ShowModal
}

type Edge int

const (
	GateUnchanged Edge = iota
	GateOpened
	GateClosed
)

// Gate turns the stream of snapshots into open/close edges so the prompt
// is opened exactly once per pending change.
type Gate struct {
	auth *AuthContext

	mu   sync.Mutex
	open bool
}

func NewGate(auth *AuthContext) *Gate {
	return &Gate{auth: auth}
}

func (g *Gate) Observe(s Snapshot) Edge {
	show := Decide(s) == ShowModal

	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case show && !g.open:
		g.open = true
		return GateOpened
	case !show && g.open:
		g.open = false
		return GateClosed
	default:
		return GateUnchanged
	}
}

func (g *Gate) Open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

// Cancel is the prompt's only way out besides changing the password.
func (g *Gate) Cancel(ctx context.Context) error {
	return g.auth.Logout(ctx)
}

// Submit changes the password through the underlying session.
func (g *Gate) Submit(ctx context.Context, newPassword string) error {
	return g.auth.ChangePassword(ctx, newPassword, "")
}
