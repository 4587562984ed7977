package auth

import (
	"context"
	"errors"
	"fmt"

	"salesops-auth/models"
	"salesops-auth/repositories"
)

const msgAdminDenied = "Không có quyền truy cập"

func (s *Service) requireAdmin(ctx context.Context, adminPassword string, meta RequestMeta) error {
	if adminPassword != "" && s.isAdminMaster(adminPassword) {
		return nil
	}
	s.record(ctx, securityEvent{typ: models.EventSecurityLogDenied, reason: ReasonAdminPasswordInvalid}, meta)
	return authorizationError(ReasonAdminPasswordInvalid, msgAdminDenied)
}

// SecurityLog returns the most recent events, newest first, and the total count.
func (s *Service) SecurityLog(ctx context.Context, adminPassword string, meta RequestMeta) (*models.SecurityLogResponse, error) {
	if err := s.requireAdmin(ctx, adminPassword, meta); err != nil {
		return nil, err
	}

	logs, err := s.securityLog.Recent(ctx, s.securityLogLimit)
	if err != nil {
		return nil, fmt.Errorf("read security log: %w", err)
	}
	total, err := s.securityLog.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count security log: %w", err)
	}

	return &models.SecurityLogResponse{Logs: logs, TotalEvents: total}, nil
}

// ResetPassword puts a user back into first-login state: the personal
// credential is dropped, the default secret works again and every session
// of the user is revoked.
func (s *Service) ResetPassword(ctx context.Context, adminPassword, userID string, meta RequestMeta) (*models.User, error) {
	if err := s.requireAdmin(ctx, adminPassword, meta); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, validationError(ReasonMissingFields, msgMissingChangeFields)
	}

	err := s.credentials.Reset(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFoundError(ReasonUserNotFound, msgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reset credential: %w", err)
	}

	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("revoke sessions: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}

	s.record(ctx, securityEvent{typ: models.EventPasswordReset, userID: user.ID, email: user.Email}, meta)
	return user, nil
}
