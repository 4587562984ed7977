package repositories

import (
	"context"
	"fmt"

	"salesops-auth/models"

	"github.com/jmoiron/sqlx"
)

type SQLSecurityLog struct {
	db *sqlx.DB
}

func NewSQLSecurityLog(db *sqlx.DB) *SQLSecurityLog {
	return &SQLSecurityLog{db: db}
}

func (l *SQLSecurityLog) Append(ctx context.Context, e models.SecurityEvent) error {
	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO security_events (id, type, user_id, email, ip, user_agent, browser, os, reason, created_at)
		VALUES (:id, :type, :user_id, :email, :ip, :user_agent, :browser, :os, :reason, :created_at)`, e)
	if err != nil {
		return fmt.Errorf("append security event: %w", err)
	}
	return nil
}

func (l *SQLSecurityLog) Recent(ctx context.Context, limit int) ([]models.SecurityEvent, error) {
	events := []models.SecurityEvent{}
	err := l.db.SelectContext(ctx, &events, `
		SELECT id, type, user_id, email, ip, user_agent, browser, os, reason, created_at
		FROM security_events ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent security events: %w", err)
	}
	return events, nil
}

func (l *SQLSecurityLog) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM security_events"); err != nil {
		return 0, fmt.Errorf("count security events: %w", err)
	}
	return n, nil
}
