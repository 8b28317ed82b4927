package service

import (
	"context"
	"errors"
	"strings"

	"ecogrow/internal/domain"
	"ecogrow/internal/logger"
	"ecogrow/internal/repository"
)

type ProfileService struct {
	profiles repository.ProfileStore
	roles    repository.RoleStore
}

func NewProfileService(profiles repository.ProfileStore, roles repository.RoleStore) *ProfileService {
	return &ProfileService{profiles: profiles, roles: roles}
}

// LoadProfile fetches exactly one profile. Failures are logged and returned
// without retry.
func (s *ProfileService) LoadProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		logger.Error("error loading profile", "user_id", userID, "error", err)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// CheckRole is true iff exactly one matching grant exists. Lookup errors
// count as false.
func (s *ProfileService) CheckRole(ctx context.Context, userID string, role domain.Role) bool {
	ok, err := s.roles.HasRole(ctx, userID, role)
	if err != nil {
		logger.Error("error checking role", "user_id", userID, "role", role, "error", err)
		return false
	}
	return ok
}

// Me is the payload for the current-user view.
type Me struct {
	Profile *domain.Profile `json:"profile"`
	IsAdmin bool            `json:"is_admin"`
}

func (s *ProfileService) Me(ctx context.Context, sess *Session) (*Me, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	p, err := s.LoadProfile(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	return &Me{Profile: p, IsAdmin: s.CheckRole(ctx, sess.UserID, domain.RoleAdmin)}, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, sess *Session, fullName string, location *string) (*domain.Profile, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}
	if location != nil {
		trimmed := strings.TrimSpace(*location)
		if trimmed == "" {
			location = nil
		} else {
			location = &trimmed
		}
	}

	p, err := s.profiles.Update(ctx, sess.UserID, fullName, location)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}
