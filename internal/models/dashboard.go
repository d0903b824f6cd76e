package models

import "github.com/shopspring/decimal"

// DashboardStats сводка для главной страницы.
type DashboardStats struct {
	Customers          int             `json:"total_clientes"`
	PendingQuotes      int             `json:"presupuestos_pendientes"`
	PendingQuotesValue decimal.Decimal `json:"presupuestos_pendientes_valor"`
	PendingInvoices    int             `json:"facturas_pendientes"`
	EventsToday        int             `json:"eventos_hoy"`
	Revenue            decimal.Decimal `json:"ingresos"`
}
