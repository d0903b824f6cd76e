package storage

import (
	"context"
	"fmt"

	"github.com/allwaysenergy/backoffice/internal/models"
)

// GetUserByUsername возвращает пользователя по имени или models.ErrNotFound.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, username, email, name, password_hash, active, created_at
			  FROM users WHERE username = $1`
	var u models.User
	err := s.DB.QueryRowContext(ctx, query, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &u, nil
}
