// Package repositories persists users, credentials, sessions and security
// events. Every store has an SQL implementation over sqlx and an in-memory
// one used by tests and single-process tooling.
package repositories

import (
	"context"
	"errors"
	"time"

	"salesops-auth/models"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")
)

// UserRepository is the read side of the user directory.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// CredentialStore holds custom passwords.
//
// Upsert writes cred only if the stored version equals expectedVersion
// (0 means "no row yet") and atomically sets the owner's password_changed
// flag to cred.Changed. On success cred.Version holds the new version.
// Reset removes the credential and clears password_changed.
type CredentialStore interface {
	Get(ctx context.Context, userID string) (*models.Credential, error)
	Upsert(ctx context.Context, cred *models.Credential, expectedVersion int64) error
	Reset(ctx context.Context, userID string) error
}

// SessionStore keeps live sessions. Get returns ErrNotFound for expired ones.
type SessionStore interface {
	Save(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// SecurityLog is append-only.
type SecurityLog interface {
	Append(ctx context.Context, event models.SecurityEvent) error
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]models.SecurityEvent, error)
	Count(ctx context.Context) (int, error)
}

// now is UTC so stored timestamps compare lexicographically in SQLite.
var now = func() time.Time { return time.Now().UTC() }
