// Package auth checks credentials. It issues no token: a successful login
// only returns the user.
package auth

import (
	"context"

	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
	"github.com/lalith-99/eightd/internal/repository"
	"go.uber.org/zap"
)

// Login outcomes, used as metric labels.
const (
	OutcomeSuccess         = "success"
	OutcomeUnknownEmail    = "unknown_email"
	OutcomeInvalidPassword = "invalid_password"
	OutcomeThrottled       = "throttled"
)

type Service struct {
	users    repository.UserRepository
	throttle Throttle
	logger   *zap.Logger
}

func NewService(users repository.UserRepository, throttle Throttle, logger *zap.Logger) *Service {
	if throttle == nil {
		throttle = NopThrottle{}
	}
	return &Service{users: users, throttle: throttle, logger: logger}
}

// Login returns the user for a matching email and password, along with the
// outcome label. Unknown emails give NotFound, wrong passwords give
// InvalidCredential. Both count as failures for the throttle.
//
// Throttle errors are logged and ignored so a Redis outage does not block
// logins.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = models.NormalizeEmail(email)

	allowed, err := s.throttle.Allowed(ctx, email)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		return nil, OutcomeThrottled, apperr.TooManyRequests("Too many failed login attempts, try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if apperr.IsNotFound(err) {
		s.fail(ctx, email)
		return nil, OutcomeUnknownEmail, apperr.NotFound("user", 0)
	}
	if err != nil {
		return nil, "", err
	}

	ok, err := VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		s.fail(ctx, email)
		return nil, OutcomeInvalidPassword, apperr.InvalidCredential()
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.logger.Warn("reset login throttle", zap.Error(err))
	}
	return user, OutcomeSuccess, nil
}

func (s *Service) fail(ctx context.Context, email string) {
	if err := s.throttle.Failed(ctx, email); err != nil {
		s.logger.Warn("record login failure", zap.Error(err))
	}
}
