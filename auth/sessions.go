package auth

import (
	"context"
	"errors"
	"fmt"

	"salesops-auth/models"
	"salesops-auth/repositories"
)

const msgSessionInvalid = "Phiên đăng nhập không hợp lệ hoặc đã hết hạn"

// Authenticate resolves a bearer token to its live session and user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Session, *models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, authenticationError(ReasonSessionInvalid, msgSessionInvalid)
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, authenticationError(ReasonSessionInvalid, msgSessionInvalid)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup session: %w", err)
	}
	if sess.UserID != claims.Subject {
		return nil, nil, authenticationError(ReasonSessionInvalid, msgSessionInvalid)
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, authenticationError(ReasonSessionInvalid, msgSessionInvalid)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	return sess, user, nil
}

// Me describes the session behind token, with the same user view login returned.
func (s *Service) Me(ctx context.Context, token string) (*models.MeResponse, error) {
	sess, user, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	view := *user
	if sess.LoginType == models.LoginTypeAdminMaster {
		view.PasswordChanged = true
	}

	return &models.MeResponse{
		User:                  view,
		LoginType:             sess.LoginType,
		RequirePasswordChange: sess.RequirePasswordChange,
	}, nil
}

// Logout ends the session behind token. An already dead session is not an error.
func (s *Service) Logout(ctx context.Context, token string, meta RequestMeta) error {
	claims, err := s.tokens.Parse(token)
	if errors.Is(err, ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return authenticationError(ReasonSessionInvalid, msgSessionInvalid)
	}

	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.record(ctx, securityEvent{typ: models.EventLogout, userID: claims.Subject}, meta)
	return nil
}

// SessionID extracts the session ID from a token without touching storage.
// It returns "" for tokens that do not verify.
func (s *Service) SessionID(token string) string {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return ""
	}
	return claims.ID
}
