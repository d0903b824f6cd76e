package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/allwaysenergy/backoffice/internal/models"
)

const customerColumns = `id, name, phone, email, address, tax_id, locality, province,
	postal_code, contact, notes, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.TaxID, &c.Locality,
		&c.Province, &c.PostalCode, &c.Contact, &c.Notes, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCustomers возвращает клиентов от новых к старым. Непустой Search ищет
// подстроку без учёта регистра в имени, e-mail и NIF.
func (s *Storage) ListCustomers(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, error) {
	const op = "storage.ListCustomers"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + customerColumns + ` FROM customers`
	var args []any
	if filter.Search != "" {
		query += ` WHERE name ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\' OR tax_id ILIKE $1 ESCAPE '\'`
		args = append(args, likePattern(filter.Search))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetCustomer возвращает клиента по ID.
func (s *Storage) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	const op = "storage.GetCustomer"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return c, nil
}

// CreateCustomer вставляет клиента и возвращает его ID.
func (s *Storage) CreateCustomer(ctx context.Context, c models.Customer) (int64, error) {
	const op = "storage.CreateCustomer"
	if err := ctxErr(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO customers (name, phone, email, address, tax_id, locality, province,
				  postal_code, contact, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query, c.Name, c.Phone, c.Email, c.Address, c.TaxID,
		c.Locality, c.Province, c.PostalCode, c.Contact, c.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return id, nil
}

// UpdateCustomer заменяет все изменяемые поля клиента.
func (s *Storage) UpdateCustomer(ctx context.Context, id int64, c models.Customer) error {
	const op = "storage.UpdateCustomer"
	if err := ctxErr(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE customers
			  SET name = $1, phone = $2, email = $3, address = $4, tax_id = $5, locality = $6,
			      province = $7, postal_code = $8, contact = $9, notes = $10
			  WHERE id = $11`
	res, err := s.DB.ExecContext(ctx, query, c.Name, c.Phone, c.Email, c.Address, c.TaxID,
		c.Locality, c.Province, c.PostalCode, c.Contact, c.Notes, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteCustomer удаляет клиента. Документы клиента не удаляются: ссылка на него
// обнуляется. Возвращает ID предложений и счетов, потерявших ссылку.
func (s *Storage) DeleteCustomer(ctx context.Context, id int64) (models.Detached, error) {
	const op = "storage.DeleteCustomer"
	var detached models.Detached
	if err := ctxErr(ctx); err != nil {
		return detached, fmt.Errorf("%s: %w", op, err)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		detached.Quotes, err = detach(ctx, tx, "quotes", "customer_id", id)
		if err != nil {
			return err
		}
		detached.Invoices, err = detach(ctx, tx, "invoices", "customer_id", id)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
		if err != nil {
			return mapError(err)
		}
		return affected(res)
	})
	if err != nil {
		return models.Detached{}, fmt.Errorf("%s: %w", op, err)
	}
	return detached, nil
}

// detach обнуляет ссылку column на удаляемую запись и возвращает ID затронутых строк table.
func detach(ctx context.Context, tx *sql.Tx, table, column string, ref int64) ([]int64, error) {
	rows, err := tx.QueryContext(ctx,
		`UPDATE `+table+` SET `+column+` = NULL WHERE `+column+` = $1 RETURNING id`, ref)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern ищет подстроку буквально: %, _ и \ в запросе экранируются.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
