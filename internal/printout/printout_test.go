package printout

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allwaysenergy/backoffice/internal/models"
)

func testInvoice() *models.Invoice {
	return &models.Invoice{
		ID:       1,
		Number:   "FACT-2024-001",
		IssuedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Status:   models.InvoicePaid,
		Items: []models.LineItem{
			{Description: "Panel Solar 540W Bifacial", Quantity: 20, UnitPrice: decimal.NewFromInt(320), Total: decimal.NewFromInt(6400)},
		},
		Totals: models.Totals{
			Subtotal: decimal.NewFromInt(8400),
			Tax:      decimal.NewFromInt(1764),
			Total:    decimal.NewFromInt(10164),
		},
		Notes: "Factura generada desde presupuesto <PRES-2024-002>",
	}
}

func TestRenderer_Invoice(t *testing.T) {
	r, err := New(DefaultCompany, time.UTC)
	require.NoError(t, err)

	customer := &models.Customer{
		Name:       "María López Fernández",
		Address:    "Avenida de la Paz, 45",
		Locality:   "Barcelona",
		Province:   "Barcelona",
		PostalCode: "08001",
		TaxID:      "87654321B",
	}

	out, err := r.Invoice(testInvoice(), customer)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<h1>ALLWAYS ENERGY</h1>")
	assert.Contains(t, html, "Factura FACT-2024-001")
	assert.Contains(t, html, "María López Fernández")
	assert.Contains(t, html, "NIF: 87654321B")
	assert.Contains(t, html, "15/3/2024")
	assert.Contains(t, html, "320.00 €")
	assert.Contains(t, html, "Subtotal: 8400.00 €")
	assert.Contains(t, html, "IVA (21%): 1764.00 €")
	assert.Contains(t, html, "Total: 10164.00 €")
	assert.Contains(t, html, "&lt;PRES-2024-002&gt;", "notes must be escaped")
}

func TestRenderer_InvoiceWithoutCustomer(t *testing.T) {
	r, err := New(DefaultCompany, time.UTC)
	require.NoError(t, err)

	inv := testInvoice()
	inv.Notes = ""
	out, err := r.Invoice(inv, nil)
	require.NoError(t, err)

	assert.Contains(t, string(out), "Sin cliente asignado")
	assert.NotContains(t, string(out), "Observaciones")
}
