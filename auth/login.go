package auth

import (
	"context"
	"errors"
	"fmt"

	"salesops-auth/models"
	"salesops-auth/repositories"

	"github.com/google/uuid"
)

const (
	msgMissingCredentials = "Vui lòng nhập email và mật khẩu"
	msgEmailNotFound      = "Email không tồn tại trong hệ thống"
	msgUseDefaultPassword = "Vui lòng sử dụng mật khẩu mặc định cho lần đăng nhập đầu tiên"
	msgUseNewPassword     = "Vui lòng sử dụng mật khẩu mới"
	msgWrongPassword      = "Mật khẩu không đúng"
)

// Login authenticates email/password. The checks run in a fixed order and
// the first match decides:
//
//  1. missing email or password
//  2. unknown email
//  3. admin master password (any user, stored state untouched)
//  4. user never changed password: only the default secret is accepted
//  5. user changed password: the default secret is refused, the stored one must match
func (s *Service) Login(ctx context.Context, email, password string, meta RequestMeta) (*models.LoginResponse, error) {
	if email == "" || password == "" {
		s.record(ctx, securityEvent{typ: models.EventLoginMissingFields, email: email, reason: ReasonMissingFields}, meta)
		s.countLogin("", "rejected")
		return nil, validationError(ReasonMissingFields, msgMissingCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		s.record(ctx, securityEvent{typ: models.EventLoginUnknownEmail, email: email, reason: ReasonEmailNotFound}, meta)
		s.countLogin("", "rejected")
		return nil, authenticationError(ReasonEmailNotFound, msgEmailNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ev := securityEvent{userID: user.ID, email: user.Email}

	if s.isAdminMaster(password) {
		view := *user
		view.PasswordChanged = true
		ev.typ = models.EventAdminMasterLogin
		return s.admit(ctx, &view, models.LoginTypeAdminMaster, false, ev, meta)
	}

	cred, err := s.lookupCredential(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if cred == nil || !cred.Changed {
		if !secretEqual(password, s.defaultPassword) {
			ev.typ, ev.reason = models.EventFirstLoginWrongPassword, ReasonFirstLoginNeedsDefault
			return nil, s.reject(ctx, models.LoginTypeFirstLogin, ev, meta, msgUseDefaultPassword)
		}
		ev.typ = models.EventFirstLogin
		return s.admit(ctx, user, models.LoginTypeFirstLogin, true, ev, meta)
	}

	// The default secret stops working the moment a personal one exists.
	if secretEqual(password, s.defaultPassword) {
		ev.typ, ev.reason = models.EventDefaultPasswordReplay, ReasonDefaultAfterChange
		return nil, s.reject(ctx, models.LoginTypeCustomPassword, ev, meta, msgUseNewPassword)
	}

	if !checkPassword(cred.PasswordHash, password) {
		ev.typ, ev.reason = models.EventCustomPasswordWrong, ReasonWrongPassword
		return nil, s.reject(ctx, models.LoginTypeCustomPassword, ev, meta, msgWrongPassword)
	}

	ev.typ = models.EventCustomPasswordLogin
	return s.admit(ctx, user, models.LoginTypeCustomPassword, false, ev, meta)
}

// admit opens a session for user and returns the login payload.
func (s *Service) admit(ctx context.Context, user *models.User, loginType models.LoginType, mustChange bool, ev securityEvent, meta RequestMeta) (*models.LoginResponse, error) {
	created := s.now()
	sess := &models.Session{
		ID:                    uuid.New().String(),
		UserID:                user.ID,
		LoginType:             loginType,
		RequirePasswordChange: mustChange,
		CreatedAt:             created,
		ExpiresAt:             created.Add(s.sessionTTL),
	}

	token, err := s.tokens.Issue(sess)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.record(ctx, ev, meta)
	s.countLogin(loginType, "success")

	return &models.LoginResponse{
		User:                  *user,
		Token:                 token,
		LoginType:             loginType,
		RequirePasswordChange: mustChange,
	}, nil
}

func (s *Service) reject(ctx context.Context, loginType models.LoginType, ev securityEvent, meta RequestMeta, message string) error {
	s.record(ctx, ev, meta)
	s.countLogin(loginType, "rejected")
	return authenticationError(ev.reason, message)
}

func (s *Service) countLogin(loginType models.LoginType, outcome string) {
	if s.metrics == nil {
		return
	}
	if loginType == "" {
		loginType = "unknown"
	}
	s.metrics.LoginAttempts.WithLabelValues(string(loginType), outcome).Inc()
}
