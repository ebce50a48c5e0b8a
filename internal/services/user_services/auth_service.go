// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookmyseva/backend/internal/auth"
	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/logging"
	"github.com/bookmyseva/backend/internal/repository/user"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues JWTs: password login for admins, token minting for
// OTP-verified customers.
type AuthService struct {
	users     user.UserRepository
	jwtSecret []byte
	logger    logging.Logger
}

func NewAuthService(users user.UserRepository, jwtSecret []byte, logger logging.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// AdminLogin authenticates an admin by phone and password. Failures are
// indistinguishable to the caller.
func (s *AuthService) AdminLogin(ctx context.Context, phone, password string) (*domain.User, string, error) {
	if phone == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	account, err := s.users.FindByPhoneNumber(ctx, phone)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find account: %w", err)
	}
	if !account.IsAdmin() || account.Password == "" {
		s.logger.Warn("non-admin password login attempt", "user_id", account.ID)
		return nil, "", ErrInvalidCredentials
	}
	if err := account.ValidatePassword(password); err != nil {
		s.logger.Warn("admin login failed", "user_id", account.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(account.ID, account.Role, s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("admin logged in", "user_id", account.ID)
	return account, token, nil
}

// TokenForUser mints a session JWT for an already-authenticated user,
// the customer OTP flow's final step.
func (s *AuthService) TokenForUser(account *domain.User) (string, error) {
	token, err := auth.GenerateJWT(account.ID, account.Role, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// CurrentUser loads the account behind a validated token subject.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*domain.User, error) {
	account, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return account, nil
}
