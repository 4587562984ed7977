package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"salesops-auth/models"

	"github.com/jmoiron/sqlx"
)

type SQLCredentialStore struct {
	db *sqlx.DB
}

func NewSQLCredentialStore(db *sqlx.DB) *SQLCredentialStore {
	return &SQLCredentialStore{db: db}
}

func (s *SQLCredentialStore) Get(ctx context.Context, userID string) (*models.Credential, error) {
	var cred models.Credential
	err := s.db.GetContext(ctx, &cred,
		"SELECT user_id, password_hash, changed, changed_at, changed_from_ip, version FROM credentials WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &cred, nil
}

func (s *SQLCredentialStore) Upsert(ctx context.Context, cred *models.Credential, expectedVersion int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	next := expectedVersion + 1

	var res sql.Result
	if expectedVersion == 0 {
		res, err = tx.ExecContext(ctx, `
			INSERT INTO credentials (user_id, password_hash, changed, changed_at, changed_from_ip, version)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO NOTHING`,
			cred.UserID, cred.PasswordHash, cred.Changed, cred.ChangedAt, cred.ChangedFromIP, next)
	} else {
		res, err = tx.ExecContext(ctx, `
			UPDATE credentials
			SET password_hash = ?, changed = ?, changed_at = ?, changed_from_ip = ?, version = ?
			WHERE user_id = ? AND version = ?`,
			cred.PasswordHash, cred.Changed, cred.ChangedAt, cred.ChangedFromIP, next, cred.UserID, expectedVersion)
	}
	if err != nil {
		return fmt.Errorf("write credential: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVersionConflict
	}

	res, err = tx.ExecContext(ctx, "UPDATE users SET password_changed = ?, updated_at = ? WHERE id = ?",
		cred.Changed, now(), cred.UserID)
	if err != nil {
		return fmt.Errorf("flag user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	cred.Version = next
	return nil
}

func (s *SQLCredentialStore) Reset(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM credentials WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}

	res, err := tx.ExecContext(ctx, "UPDATE users SET password_changed = 0, updated_at = ? WHERE id = ?", now(), userID)
	if err != nil {
		return fmt.Errorf("unflag user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
