// Package auth содержит логику входа по логину и паролю и проверки токенов сессии.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/allwaysenergy/backoffice/internal/lib/jwt"
	"github.com/allwaysenergy/backoffice/internal/lib/password"
	"github.com/allwaysenergy/backoffice/internal/lib/sl"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// UserRepository описывает чтение учётных записей.
type UserRepository interface {
	// GetUserByUsername возвращает пользователя по имени или models.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service отвечает за вход и проверку JWT.
type Service struct {
	log      *slog.Logger
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		log:      log,
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Login проверяет пароль и выдаёт токен сессии.
// Неизвестный пользователь, неактивный пользователь и неверный пароль неразличимы
// для клиента: все три случая возвращают models.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, models.UserSummary, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case errors.Is(err, models.ErrNotFound):
		_ = password.CompareDummy(rawPassword)
		return "", models.UserSummary{}, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	case err != nil:
		return "", models.UserSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	if !user.Active {
		_ = password.CompareDummy(rawPassword)
		return "", models.UserSummary{}, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.Error("stored password hash is unreadable", sl.Op(op), slog.Int64("user_id", user.ID), sl.Err(err))
		}
		return "", models.UserSummary{}, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Username)
	if err != nil {
		return "", models.UserSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", sl.Op(op), slog.Int64("user_id", user.ID))
	return token, user.Summary(), nil
}

// Authenticate проверяет токен и возвращает личность вызывающего.
func (s *Service) Authenticate(_ context.Context, token string) (models.Identity, error) {
	const op = "auth.Authenticate"
	if token == "" {
		return models.Identity{}, fmt.Errorf("%s: %w", op, models.ErrMissingToken)
	}

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: %w: %w", op, models.ErrInvalidToken, err)
	}
	return models.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
