package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/allwaysenergy/backoffice/internal/models"
)

const eventColumns = `id, title, starts_at, ends_at, customer_id, description, kind`

func scanEvent(row rowScanner) (*models.Event, error) {
	var e models.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Start, &e.End, &e.CustomerID, &e.Description, &e.Kind); err != nil {
		return nil, err
	}
	return &e, nil
}

func eventWhere(filter models.EventFilter) (string, []any) {
	var conds []string
	var args []any
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conds = append(conds, fmt.Sprintf("starts_at >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conds = append(conds, fmt.Sprintf("starts_at < $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListEvents возвращает события с началом в [From, To), по возрастанию начала.
func (s *Storage) ListEvents(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	const op = "storage.ListEvents"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	where, args := eventWhere(filter)
	query := `SELECT ` + eventColumns + ` FROM events` + where + ` ORDER BY starts_at, id`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetEvent возвращает событие по ID.
func (s *Storage) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	const op = "storage.GetEvent"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	e, err := scanEvent(s.DB.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return e, nil
}

// CreateEvent вставляет событие и возвращает его ID.
func (s *Storage) CreateEvent(ctx context.Context, e models.Event) (int64, error) {
	const op = "storage.CreateEvent"
	if err := ctxErr(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO events (title, starts_at, ends_at, customer_id, description, kind)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query, e.Title, e.Start, e.End, e.CustomerID, e.Description, e.Kind).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return id, nil
}

// UpdateEvent заменяет все поля события.
func (s *Storage) UpdateEvent(ctx context.Context, e models.Event) error {
	const op = "storage.UpdateEvent"
	if err := ctxErr(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE events
			  SET title = $2, starts_at = $3, ends_at = $4, customer_id = $5, description = $6, kind = $7
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, e.ID, e.Title, e.Start, e.End, e.CustomerID, e.Description, e.Kind)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteEvent удаляет событие.
func (s *Storage) DeleteEvent(ctx context.Context, id int64) error {
	const op = "storage.DeleteEvent"
	if err := ctxErr(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
