package authclient

import (
	"context"
	"errors"
	"sync"

	"salesops-auth/models"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

var (
	// ErrBusy is returned while another login or password change is in flight.
	ErrBusy = errors.New("authclient: another request is in progress")
	// ErrNotAuthenticated is returned by operations that need a session.
	ErrNotAuthenticated = errors.New("authclient: not logged in")
	// ErrSessionEnded is returned when the session was replaced or logged
	// out while the request was in flight; its result was discarded.
	ErrSessionEnded = errors.New("authclient: session ended during the request")
)

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
	MustChangePassword
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated_ok"
	case MustChangePassword:
		return "authenticated_must_change"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent view of the session at one point in time.
type Snapshot struct {
	State                 State
	User                  *models.User
	Token                 string
	LoginType             models.LoginType
	IsFirstLogin          bool
	RequirePasswordChange bool
	IsSubmitting          bool
}

func stateFor(isFirstLogin, requireChange bool) State {
	if isFirstLogin || requireChange {
		return MustChangePassword
	}
	return Authenticated
}

// AuthContext holds the client session and notifies subscribers on every
// transition. It is safe for concurrent use.
//
// gen identifies the current session. Login, Restore and Logout start a new
// one; a request that finishes after its session was replaced or ended
// drops its result.
type AuthContext struct {
	api   API
	store Storage

	mu     sync.Mutex
	snap   Snapshot
	gen    uint64
	subs   map[int]func(Snapshot)
	nextID int
}

func NewAuthContext(api API, store Storage) *AuthContext {
	return &AuthContext{
		api:   api,
		store: store,
		subs:  make(map[int]func(Snapshot)),
	}
}

func (a *AuthContext) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

// Subscribe registers fn for every future transition and returns a function
// that removes it. fn is called outside the lock.
func (a *AuthContext) Subscribe(fn func(Snapshot)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

// setLocked replaces the snapshot and returns the callbacks to notify.
// a.mu must be held.
func (a *AuthContext) setLocked(s Snapshot) []func(Snapshot) {
	a.snap = s
	fns := make([]func(Snapshot), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func(Snapshot), s Snapshot) {
	for _, fn := range fns {
		fn(s)
	}
}

// storeLocked writes s to storage, or clears storage when s has no user.
// a.mu must be held.
func (a *AuthContext) storeLocked(s Snapshot) error {
	if s.User == nil {
		return a.store.Clear()
	}
	return a.store.Save(&StoredSession{
		User:                  *s.User,
		Token:                 s.Token,
		LoginType:             s.LoginType,
		IsFirstLogin:          s.IsFirstLogin,
		RequirePasswordChange: s.RequirePasswordChange,
	})
}

// begin marks a request in flight, or returns ErrBusy. A new session wipes
// the current one, in memory and in storage, before the request is sent;
// otherwise a signed-in user is required.
func (a *AuthContext) begin(newSession bool) (Snapshot, uint64, error) {
	a.mu.Lock()
	if a.snap.IsSubmitting {
		a.mu.Unlock()
		return Snapshot{}, 0, ErrBusy
	}
	if !newSession && a.snap.User == nil {
		a.mu.Unlock()
		return Snapshot{}, 0, ErrNotAuthenticated
	}

	prev := a.snap
	next := a.snap
	if newSession {
		a.gen++
		next = Snapshot{State: Authenticating}
		if err := a.store.Clear(); err != nil {
			logger.Error("Failed to clear stored session", zap.Error(err))
		}
	}
	next.IsSubmitting = true
	gen := a.gen
	fns := a.setLocked(next)
	a.mu.Unlock()

	notify(fns, next)
	return prev, gen, nil
}

// commit publishes next as the outcome of a request started in session gen
// and mirrors it to storage. It reports false, changing nothing, when the
// session was replaced or ended in the meantime.
func (a *AuthContext) commit(gen uint64, next Snapshot) bool {
	a.mu.Lock()
	if a.gen != gen {
		a.mu.Unlock()
		return false
	}
	if err := a.storeLocked(next); err != nil {
		logger.Error("Failed to persist session", zap.Error(err))
	}
	fns := a.setLocked(next)
	a.mu.Unlock()

	notify(fns, next)
	return true
}

// Login authenticates and, on success, replaces any current session. The
// previous session is dropped as soon as the attempt starts, so a failed
// login leaves the context anonymous with nothing stored.
func (a *AuthContext) Login(ctx context.Context, email, password string) error {
	_, gen, err := a.begin(true)
	if err != nil {
		return err
	}

	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.commit(gen, Snapshot{State: Anonymous})
		return err
	}

	user := resp.User
	isFirstLogin := resp.LoginType == models.LoginTypeFirstLogin
	next := Snapshot{
		State:                 stateFor(isFirstLogin, resp.RequirePasswordChange),
		User:                  &user,
		Token:                 resp.Token,
		LoginType:             resp.LoginType,
		IsFirstLogin:          isFirstLogin,
		RequirePasswordChange: resp.RequirePasswordChange,
	}
	if !a.commit(gen, next) {
		if err := a.api.Logout(ctx, resp.Token); err != nil {
			logger.Error("Failed to end discarded session", zap.Error(err))
		}
		return ErrSessionEnded
	}
	return nil
}

// ChangePassword replaces the signed-in user's password. On failure the
// snapshot is unchanged apart from the in-flight flag. If the session ends
// while the request is in flight the answer is discarded.
func (a *AuthContext) ChangePassword(ctx context.Context, newPassword, currentPassword string) error {
	prev, gen, err := a.begin(false)
	if err != nil {
		return err
	}

	user, err := a.api.ChangePassword(ctx, prev.Token, models.ChangePasswordRequest{
		UserID:          prev.User.ID,
		NewPassword:     newPassword,
		CurrentPassword: currentPassword,
	})
	if err != nil {
		a.commit(gen, prev)
		return err
	}

	next := prev
	next.User = user
	next.IsFirstLogin = false
	next.RequirePasswordChange = false
	next.State = Authenticated

	if !a.commit(gen, next) {
		return ErrSessionEnded
	}
	return nil
}

// Logout ends the session on the server if it can and always clears the
// local one. Requests still in flight are discarded when they return.
func (a *AuthContext) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.gen++
	token := a.snap.Token
	a.mu.Unlock()

	if token != "" {
		if err := a.api.Logout(ctx, token); err != nil {
			logger.Error("Server logout failed, clearing local session anyway", zap.Error(err))
		}
	}

	a.mu.Lock()
	a.gen++
	err := a.store.Clear()
	next := Snapshot{State: Anonymous}
	fns := a.setLocked(next)
	a.mu.Unlock()

	notify(fns, next)
	return err
}

// Restore reloads a persisted session and revalidates it with the server.
// A session the server no longer accepts is discarded. Any other failure
// keeps the stored session for a later attempt.
func (a *AuthContext) Restore(ctx context.Context) error {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.mu.Unlock()

	stored, err := a.store.Load()
	if err != nil {
		return err
	}
	if stored == nil || stored.Token == "" {
		a.commit(gen, Snapshot{State: Anonymous})
		return nil
	}

	me, err := a.api.Me(ctx, stored.Token)
	if IsUnauthorized(err) {
		logger.Info("Stored session expired", zap.String("user_id", stored.User.ID))
		a.commit(gen, Snapshot{State: Anonymous})
		return nil
	}
	if err != nil {
		return err
	}

	user := me.User
	isFirstLogin := stored.IsFirstLogin && me.RequirePasswordChange
	next := Snapshot{
		State:                 stateFor(isFirstLogin, me.RequirePasswordChange),
		User:                  &user,
		Token:                 stored.Token,
		LoginType:             me.LoginType,
		IsFirstLogin:          isFirstLogin,
		RequirePasswordChange: me.RequirePasswordChange,
	}
	if !a.commit(gen, next) {
		return ErrSessionEnded
	}
	return nil
}
