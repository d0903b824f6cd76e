package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/allwaysenergy/backoffice/internal/models"
)

const invoiceColumns = `i.id, i.customer_id, i.quote_id, i.number, i.issued_at, i.subtotal, i.tax,
	i.total, i.status, i.notes, i.paid_at`

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.CustomerID, &inv.QuoteID, &inv.Number, &inv.IssuedAt, &inv.Subtotal,
		&inv.Tax, &inv.Total, &inv.Status, &inv.Notes, &inv.PaidAt)
	if err != nil {
		return nil, err
	}
	inv.Items = []models.LineItem{}
	return &inv, nil
}

// ListInvoices возвращает счета от новых к старым вместе со строками.
func (s *Storage) ListInvoices(ctx context.Context, filter models.DocumentFilter) ([]*models.Invoice, error) {
	const op = "storage.ListInvoices"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	where, args := documentWhere("i", filter)
	query := `SELECT ` + invoiceColumns + `
			  FROM invoices i LEFT JOIN customers c ON c.id = i.customer_id` + where + `
			  ORDER BY i.issued_at DESC, i.id DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Invoice, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, inv)
		ids = append(ids, inv.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := loadItems(ctx, s.DB, invoiceItems, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, inv := range result {
		if it, ok := items[inv.ID]; ok {
			inv.Items = it
		}
	}
	return result, nil
}

// GetInvoice возвращает счёт со строками.
func (s *Storage) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	const op = "storage.GetInvoice"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices i WHERE i.id = $1`
	inv, err := scanInvoice(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	items, err := loadItems(ctx, s.DB, invoiceItems, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if it, ok := items[id]; ok {
		inv.Items = it
	}
	return inv, nil
}

// CreateInvoice сохраняет счёт со строками в одной транзакции.
// Пустой номер заменяется следующим FAC-YYYY-NNN. Возвращает ID и номер.
func (s *Storage) CreateInvoice(ctx context.Context, inv models.Invoice) (int64, string, error) {
	const op = "storage.CreateInvoice"
	if err := ctxErr(ctx); err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	var number string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO invoices (customer_id, quote_id, number, subtotal, tax, total, status, notes)
				  VALUES ($1, $2, ` + numberExpr("FAC", "invoice_number_seq", "$3") + `, $4, $5, $6, $7, $8)
				  RETURNING id, number`
		err := tx.QueryRowContext(ctx, query, inv.CustomerID, inv.QuoteID, inv.Number, inv.Subtotal, inv.Tax,
			inv.Total, models.InvoicePending, inv.Notes).Scan(&id, &number)
		if err != nil {
			return mapError(err)
		}
		return insertItems(ctx, tx, invoiceItems, id, inv.Items)
	})
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}
	return id, number, nil
}

// UpdateInvoice заменяет клиента, ссылку на предложение, номер (если задан),
// примечания, итоги и строки. Оплаченный счёт не обновляется.
func (s *Storage) UpdateInvoice(ctx context.Context, inv models.Invoice) error {
	const op = "storage.UpdateInvoice"
	if err := ctxErr(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var status models.InvoiceStatus
		err := tx.QueryRowContext(ctx, `SELECT status FROM invoices WHERE id = $1 FOR UPDATE`, inv.ID).Scan(&status)
		if err != nil {
			return mapError(err)
		}
		if status == models.InvoicePaid {
			return models.ErrAlreadyPaid
		}

		query := `UPDATE invoices
				  SET customer_id = $2, quote_id = $3, number = COALESCE(NULLIF($4, ''), number),
				      subtotal = $5, tax = $6, total = $7, notes = $8
				  WHERE id = $1`
		_, err = tx.ExecContext(ctx, query, inv.ID, inv.CustomerID, inv.QuoteID, inv.Number,
			inv.Subtotal, inv.Tax, inv.Total, inv.Notes)
		if err != nil {
			return mapError(err)
		}
		return replaceItems(ctx, tx, invoiceItems, inv.ID, inv.Items)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteInvoice удаляет счёт и его строки. Предложения, преобразованные в него,
// теряют ссылку; возвращаются их ID.
func (s *Storage) DeleteInvoice(ctx context.Context, id int64) ([]int64, error) {
	const op = "storage.DeleteInvoice"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var quotes []int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		quotes, err = detach(ctx, tx, "quotes", "invoice_id", id)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
		if err != nil {
			return mapError(err)
		}
		return affected(res)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return quotes, nil
}

// MarkInvoicePaid переводит счёт в статус pagada одним условным UPDATE.
// Повторный вызов возвращает models.ErrAlreadyPaid.
func (s *Storage) MarkInvoicePaid(ctx context.Context, id int64, paidAt time.Time) error {
	const op = "storage.MarkInvoicePaid"
	if err := ctxErr(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE invoices SET status = $2, paid_at = $3 WHERE id = $1 AND status = $4`
	res, err := s.DB.ExecContext(ctx, query, id, models.InvoicePaid, paidAt, models.InvoicePending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 1 {
		return nil
	}

	var status models.InvoiceStatus
	err = s.DB.QueryRowContext(ctx, `SELECT status FROM invoices WHERE id = $1`, id).Scan(&status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return fmt.Errorf("%s: %w", op, models.ErrAlreadyPaid)
}
