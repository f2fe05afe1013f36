package service

import (
	"context"
	"errors"

	"eclass/internal/common"
	"eclass/internal/common/security"
	"eclass/internal/domain/model"
	"eclass/internal/domain/repository"
	"eclass/internal/platform/config"
	"eclass/internal/platform/sessions"
)

type AuthService struct {
	userRepo repository.UserRepository
	sessions sessions.Store
}

func NewAuthService(userRepo repository.UserRepository, sessionStore sessions.Store) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessionStore}
}

// Login verifies the credentials and opens a session. The returned token goes
// into the session cookie; its jti is registered in the session store for the
// configured TTL. Unknown user, wrong password and disabled account all yield
// the same generic unauthorized error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	if username == "" || password == "" {
		return nil, "", common.ErrBadRequest
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrUnauthorized
		}
		return nil, "", common.Errorf("failed to find user: %w", err)
	}
	if !security.CheckPasswordHash(password, user.HashedPassword) {
		return nil, "", common.ErrUnauthorized
	}
	if !user.Enabled {
		return nil, "", common.ErrUnauthorized
	}

	token, jti, err := security.GenerateSessionToken(user.ID, user.Role)
	if err != nil {
		return nil, "", common.Errorf("failed to generate session token: %w", err)
	}
	if err := s.sessions.Create(ctx, jti, user.ID, config.AppConfig.SessionTTL); err != nil {
		return nil, "", common.Errorf("failed to open session: %w", err)
	}
	return user, token, nil
}

// Logout revokes the session; the token is dead from the next request on
// even though it has not expired.
func (s *AuthService) Logout(ctx context.Context, jti string) error {
	return s.sessions.Delete(ctx, jti)
}
