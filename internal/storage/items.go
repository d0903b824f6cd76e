package storage

import (
	"context"
	"fmt"

	"github.com/allwaysenergy/backoffice/internal/models"
)

// itemTable описывает таблицу строк конкретного вида документов.
type itemTable struct {
	name string
	fk   string
}

var (
	quoteItems   = itemTable{name: "quote_items", fk: "quote_id"}
	invoiceItems = itemTable{name: "invoice_items", fk: "invoice_id"}
)

// insertItems сохраняет строки документа в исходном порядке и проставляет им ID.
func insertItems(ctx context.Context, q querier, t itemTable, docID int64, items []models.LineItem) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, position, description, quantity, unit_price, total)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`, t.name, t.fk)
	for i := range items {
		it := &items[i]
		err := q.QueryRowContext(ctx, query, docID, i+1, it.Description, it.Quantity, it.UnitPrice, it.Total).
			Scan(&it.ID)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

// replaceItems удаляет строки документа и вставляет новые.
func replaceItems(ctx context.Context, q querier, t itemTable, docID int64, items []models.LineItem) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.fk)
	if _, err := q.ExecContext(ctx, query, docID); err != nil {
		return err
	}
	return insertItems(ctx, q, t, docID, items)
}

// loadItems одним запросом читает строки всех перечисленных документов.
func loadItems(ctx context.Context, q querier, t itemTable, docIDs []int64) (map[int64][]models.LineItem, error) {
	result := make(map[int64][]models.LineItem, len(docIDs))
	if len(docIDs) == 0 {
		return result, nil
	}

	args := make([]any, len(docIDs))
	for i, id := range docIDs {
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT %s, id, description, quantity, unit_price, total
			  FROM %s WHERE %s IN (%s)
			  ORDER BY %s, position`, t.fk, t.name, t.fk, placeholders(1, len(docIDs)), t.fk)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var docID int64
		var it models.LineItem
		if err := rows.Scan(&docID, &it.ID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, err
		}
		result[docID] = append(result[docID], it)
	}
	return result, rows.Err()
}
