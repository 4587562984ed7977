// Package auth implements the password lifecycle: first login with the shared
// default secret, the forced change to a personal one, the admin master
// override, sessions and the security log.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salesops-auth/config"
	"salesops-auth/models"
	"salesops-auth/repositories"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Stores groups the persistence the service depends on.
type Stores struct {
	Users       repositories.UserRepository
	Credentials repositories.CredentialStore
	Sessions    repositories.SessionStore
	SecurityLog repositories.SecurityLog
}

// RequestMeta describes the caller for the security log.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type Service struct {
	users       repositories.UserRepository
	credentials repositories.CredentialStore
	sessions    repositories.SessionStore
	securityLog repositories.SecurityLog

	tokens  *TokenIssuer
	policy  Policy
	metrics *Metrics

	defaultPassword     string
	adminMasterPassword string
	adminMasterEnabled  bool
	bcryptCost          int
	sessionTTL          time.Duration
	securityLogLimit    int

	now func() time.Time
}

func NewService(stores Stores, metrics *Metrics, cfg *config.Config) *Service {
	adminMasterEnabled := cfg.AdminMasterEnabled && cfg.AdminMasterPassword != ""
	var reserved string
	if adminMasterEnabled {
		reserved = cfg.AdminMasterPassword
	}

	return &Service{
		users:       stores.Users,
		credentials: stores.Credentials,
		sessions:    stores.Sessions,
		securityLog: stores.SecurityLog,
		tokens:      NewTokenIssuer(cfg.JWTSecret),
		policy: Policy{
			MinLength:        cfg.MinPasswordLength,
			MaxLength:        cfg.MaxPasswordLength,
			DefaultPassword:  cfg.DefaultPassword,
			ReservedPassword: reserved,
		},
		metrics:             metrics,
		defaultPassword:     cfg.DefaultPassword,
		adminMasterPassword: cfg.AdminMasterPassword,
		adminMasterEnabled:  adminMasterEnabled,
		bcryptCost:          cfg.BcryptCost,
		sessionTTL:          cfg.SessionTTL,
		securityLogLimit:    cfg.SecurityLogLimit,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

// Policy returns the password rules new passwords are checked against.
func (s *Service) Policy() Policy {
	return s.policy
}

// Tokens exposes the issuer so the transport can verify bearer tokens cheaply.
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

func (s *Service) isAdminMaster(password string) bool {
	return s.adminMasterEnabled && secretEqual(password, s.adminMasterPassword)
}

// lookupCredential returns nil (not an error) when the user never changed their password.
func (s *Service) lookupCredential(ctx context.Context, userID string) (*models.Credential, error) {
	cred, err := s.credentials.Get(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup credential: %w", err)
	}
	return cred, nil
}

// securityEvent is what record needs to know about an event.
type securityEvent struct {
	typ    models.SecurityEventType
	userID string
	email  string
	reason string
}

// record appends to the security log. Failures are logged, never returned:
// a broken audit sink must not lock users out.
func (s *Service) record(ctx context.Context, ev securityEvent, meta RequestMeta) {
	entry := models.SecurityEvent{
		ID:        uuid.New().String(),
		Type:      ev.typ,
		UserID:    ev.userID,
		Email:     ev.email,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Reason:    ev.reason,
		CreatedAt: s.now(),
	}
	if meta.UserAgent != "" {
		ua := useragent.New(meta.UserAgent)
		entry.Browser, _ = ua.Browser()
		entry.OS = ua.OS()
	}

	if s.metrics != nil {
		s.metrics.SecurityEvents.WithLabelValues(string(ev.typ)).Inc()
	}

	logger.Info("Security event",
		zap.String("type", string(ev.typ)),
		zap.String("user_id", ev.userID),
		zap.String("ip", meta.IP),
		zap.String("reason", ev.reason),
	)

	if err := s.securityLog.Append(ctx, entry); err != nil {
		logger.Error("Failed to append security event", zap.Error(err), zap.String("type", string(ev.typ)))
	}
}
