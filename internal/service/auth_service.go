package service

import (
	"context"
	"strings"

	"ecogrow/internal/domain"
	"ecogrow/internal/logger"
	"ecogrow/internal/repository"

	"github.com/google/uuid"
)

// AuthService signs users in and out on top of SessionManager.
type AuthService struct {
	sessions *SessionManager
	profiles repository.ProfileStore
	audit    *AuditService
}

func NewAuthService(sessions *SessionManager, profiles repository.ProfileStore, audit *AuditService) *AuthService {
	return &AuthService{sessions: sessions, profiles: profiles, audit: audit}
}

type SignInResult struct {
	Token   string          `json:"token"`
	Profile *domain.Profile `json:"profile"`
}

// DevSignIn creates a fresh profile and returns a token for it. It is only
// routed when DEV_MODE is on.
func (s *AuthService) DevSignIn(ctx context.Context, fullName string, location *string, ip, userAgent string) (*SignInResult, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}

	p := &domain.Profile{
		ID:       uuid.NewString(),
		FullName: fullName,
		Location: location,
		Badges:   []string{},
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, err
	}

	token, _, err := s.sessions.Issue(p.ID)
	if err != nil {
		return nil, err
	}

	s.audit.LogLogin(ctx, p.ID, ip, userAgent)
	logger.Info("dev sign-in", "user_id", p.ID)

	return &SignInResult{Token: token, Profile: p}, nil
}

// SignOut revokes the caller's token.
func (s *AuthService) SignOut(ctx context.Context, sess *Session) error {
	if err := s.sessions.SignOut(ctx, sess); err != nil {
		logger.Error("sign-out failed", "error", err)
		return err
	}
	s.audit.LogLogout(ctx, sess.UserID)
	return nil
}
