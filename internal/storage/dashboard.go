package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/allwaysenergy/backoffice/internal/models"
)

// DashboardStats собирает сводку одним запросом. События считаются в полуинтервале [dayStart, dayEnd).
func (s *Storage) DashboardStats(ctx context.Context, dayStart, dayEnd time.Time) (*models.DashboardStats, error) {
	const op = "storage.DashboardStats"
	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT
				(SELECT COUNT(*) FROM customers),
				(SELECT COUNT(*) FROM quotes WHERE status = $1),
				(SELECT COALESCE(SUM(total), 0) FROM quotes WHERE status = $1),
				(SELECT COUNT(*) FROM invoices WHERE status = $2),
				(SELECT COUNT(*) FROM events WHERE starts_at >= $3 AND starts_at < $4),
				(SELECT COALESCE(SUM(total), 0) FROM invoices)`
	var st models.DashboardStats
	err := s.DB.QueryRowContext(ctx, query, models.QuotePending, models.InvoicePending, dayStart, dayEnd).
		Scan(&st.Customers, &st.PendingQuotes, &st.PendingQuotesValue, &st.PendingInvoices, &st.EventsToday, &st.Revenue)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &st, nil
}
