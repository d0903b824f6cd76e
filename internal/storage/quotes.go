package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/allwaysenergy/backoffice/internal/models"
)

const quoteColumns = `q.id, q.customer_id, q.number, q.issued_at, q.subtotal, q.tax, q.total,
	q.status, q.notes, q.invoice_id`

// numberExpr подставляет номер документа из param или, если он пуст,
// следующий номер вида PREFIX-YYYY-NNN из последовательности seq.
func numberExpr(prefix, seq, param string) string {
	return fmt.Sprintf(`COALESCE(NULLIF(%s, ''), '%s-' || to_char(now(), 'YYYY') || '-' || lpad(nextval('%s')::text, 3, '0'))`,
		param, prefix, seq)
}

func scanQuote(row rowScanner) (*models.Quote, error) {
	var q models.Quote
	err := row.Scan(&q.ID, &q.CustomerID, &q.Number, &q.IssuedAt, &q.Subtotal, &q.Tax, &q.Total,
		&q.Status, &q.Notes, &q.InvoiceID)
	if err != nil {
		return nil, err
	}
	q.Items = []models.LineItem{}
	return &q, nil
}

// documentWhere строит условие выборки документов по номеру, имени клиента и статусу.
func documentWhere(alias string, filter models.DocumentFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Search != "" {
		args = append(args, likePattern(filter.Search))
		conds = append(conds, fmt.Sprintf(`(%s.number ILIKE $%d ESCAPE '\' OR c.name ILIKE $%d ESCAPE '\')`, alias, len(args), len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("%s.status = $%d", alias, len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListQuotes возвращает предложения от новых к старым вместе со строками.
func (s *Storage) ListQuotes(ctx context.Context, filter models.DocumentFilter) ([]*models.Quote, error) {
	const op = "storage.ListQuotes"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	where, args := documentWhere("q", filter)
	query := `SELECT ` + quoteColumns + `
			  FROM quotes q LEFT JOIN customers c ON c.id = q.customer_id` + where + `
			  ORDER BY q.issued_at DESC, q.id DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Quote, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, q)
		ids = append(ids, q.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := loadItems(ctx, s.DB, quoteItems, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, q := range result {
		if it, ok := items[q.ID]; ok {
			q.Items = it
		}
	}
	return result, nil
}

// GetQuote возвращает предложение со строками.
func (s *Storage) GetQuote(ctx context.Context, id int64) (*models.Quote, error) {
	const op = "storage.GetQuote"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q, err := getQuote(ctx, s.DB, id, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return q, nil
}

func getQuote(ctx context.Context, db querier, id int64, lock bool) (*models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes q WHERE q.id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	q, err := scanQuote(db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	items, err := loadItems(ctx, db, quoteItems, []int64{id})
	if err != nil {
		return nil, err
	}
	if it, ok := items[id]; ok {
		q.Items = it
	}
	return q, nil
}

// CreateQuote сохраняет предложение со строками в одной транзакции.
// Пустой номер заменяется следующим PRES-YYYY-NNN. Возвращает ID и номер.
func (s *Storage) CreateQuote(ctx context.Context, q models.Quote) (int64, string, error) {
	const op = "storage.CreateQuote"
	if err := ctxErr(ctx); err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	var number string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO quotes (customer_id, number, subtotal, tax, total, status, notes)
				  VALUES ($1, ` + numberExpr("PRES", "quote_number_seq", "$2") + `, $3, $4, $5, $6, $7)
				  RETURNING id, number`
		err := tx.QueryRowContext(ctx, query, q.CustomerID, q.Number, q.Subtotal, q.Tax, q.Total,
			models.QuotePending, q.Notes).Scan(&id, &number)
		if err != nil {
			return mapError(err)
		}
		return insertItems(ctx, tx, quoteItems, id, q.Items)
	})
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}
	return id, number, nil
}

// UpdateQuote заменяет клиента, номер (если задан), примечания, итоги и строки.
// Статус и дата выставления не меняются. Преобразованное предложение не обновляется.
func (s *Storage) UpdateQuote(ctx context.Context, q models.Quote) error {
	const op = "storage.UpdateQuote"
	if err := ctxErr(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var status models.QuoteStatus
		err := tx.QueryRowContext(ctx, `SELECT status FROM quotes WHERE id = $1 FOR UPDATE`, q.ID).Scan(&status)
		if err != nil {
			return mapError(err)
		}
		if status == models.QuoteConverted {
			return models.ErrAlreadyConverted
		}

		query := `UPDATE quotes
				  SET customer_id = $2, number = COALESCE(NULLIF($3, ''), number),
				      subtotal = $4, tax = $5, total = $6, notes = $7
				  WHERE id = $1`
		if _, err = tx.ExecContext(ctx, query, q.ID, q.CustomerID, q.Number, q.Subtotal, q.Tax, q.Total, q.Notes); err != nil {
			return mapError(err)
		}
		return replaceItems(ctx, tx, quoteItems, q.ID, q.Items)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteQuote удаляет предложение и его строки. Счета, выставленные по нему,
// остаются без ссылки; возвращаются их ID.
func (s *Storage) DeleteQuote(ctx context.Context, id int64) ([]int64, error) {
	const op = "storage.DeleteQuote"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var invoices []int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		invoices, err = detach(ctx, tx, "invoices", "quote_id", id)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM quotes WHERE id = $1`, id)
		if err != nil {
			return mapError(err)
		}
		return affected(res)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return invoices, nil
}

// ConvertQuote выставляет счёт по предложению. Строка предложения блокируется,
// счёт со строками создаётся, а предложение помечается преобразованным в одной
// транзакции: зафиксировано будет либо всё, либо ничего.
func (s *Storage) ConvertQuote(ctx context.Context, id int64) (*models.Invoice, error) {
	const op = "storage.ConvertQuote"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var inv *models.Invoice
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		q, err := getQuote(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if q.Status == models.QuoteConverted {
			return models.ErrAlreadyConverted
		}

		inv = &models.Invoice{
			CustomerID: q.CustomerID,
			QuoteID:    &q.ID,
			Status:     models.InvoicePending,
			Notes:      q.Notes,
			Totals:     q.Totals,
			Items:      make([]models.LineItem, len(q.Items)),
		}
		copy(inv.Items, q.Items)

		query := `INSERT INTO invoices (customer_id, quote_id, number, subtotal, tax, total, status, notes)
				  VALUES ($1, $2, ` + numberExpr("FAC", "invoice_number_seq", "$3") + `, $4, $5, $6, $7, $8)
				  RETURNING id, number, issued_at`
		err = tx.QueryRowContext(ctx, query, inv.CustomerID, inv.QuoteID, "", inv.Subtotal, inv.Tax, inv.Total,
			inv.Status, inv.Notes).Scan(&inv.ID, &inv.Number, &inv.IssuedAt)
		if err != nil {
			return mapError(err)
		}
		if err = insertItems(ctx, tx, invoiceItems, inv.ID, inv.Items); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE quotes SET status = $2, invoice_id = $3 WHERE id = $1`,
			id, models.QuoteConverted, inv.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inv, nil
}
