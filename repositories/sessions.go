package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"salesops-auth/models"

	"github.com/jmoiron/sqlx"
)

type SQLSessionStore struct {
	db *sqlx.DB
}

func NewSQLSessionStore(db *sqlx.DB) *SQLSessionStore {
	return &SQLSessionStore{db: db}
}

// Save inserts or replaces the session row.
func (s *SQLSessionStore) Save(ctx context.Context, sess *models.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, login_type, require_password_change, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			login_type = excluded.login_type,
			require_password_change = excluded.require_password_change,
			expires_at = excluded.expires_at`,
		sess.ID, sess.UserID, sess.LoginType, sess.RequirePasswordChange, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.db.GetContext(ctx, &sess,
		"SELECT id, user_id, login_type, require_password_change, created_at, expires_at FROM sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(now()) {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *SQLSessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

// PurgeExpired drops sessions that expired before the current time.
func (s *SQLSessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}
