// Package money считает итоги документов: сумму строк, НДС по фиксированной ставке и итог.
// Все суммы округляются до центов.
package money

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/allwaysenergy/backoffice/internal/models"
)

// TaxRate ставка IVA, применяемая к сумме строк.
var TaxRate = decimal.RequireFromString("0.21")

// MaxQuantity предел колонки quantity (INTEGER).
const MaxQuantity = 1<<31 - 1

// MaxPrice предел колонки unit_price (NUMERIC(12,2)).
var MaxPrice = decimal.RequireFromString("9999999999.99")

// LineTotal возвращает quantity × price, округлённое до центов.
func LineTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Compute пересчитывает итоги строк на месте и возвращает итоги документа:
// subtotal = Σ total_i, tax = round(subtotal × 0.21, 2), total = subtotal + tax.
func Compute(items []models.LineItem) models.Totals {
	subtotal := decimal.Zero
	for i := range items {
		items[i].Total = LineTotal(items[i].Quantity, items[i].UnitPrice)
		subtotal = subtotal.Add(items[i].Total)
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return models.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Items переводит строки запроса в строки документа с рассчитанными итогами.
func Items(req []models.DummyLineItem) ([]models.LineItem, models.Totals) {
	items := make([]models.LineItem, 0, len(req))
	for _, it := range req {
		items = append(items, models.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return items, Compute(items)
}

// CheckItems проверяет то, что не выражается тегами валидатора:
// непустое описание после обрезки пробелов, пределы количества и цены.
func CheckItems(req []models.DummyLineItem) error {
	if len(req) == 0 {
		return models.Validationf("at least one item is required")
	}
	for i, it := range req {
		if strings.TrimSpace(it.Description) == "" {
			return models.Validationf("item %d: descripcion is required", i+1)
		}
		if it.Quantity <= 0 {
			return models.Validationf("item %d: cantidad must be greater than 0", i+1)
		}
		if it.Quantity > MaxQuantity {
			return models.Validationf("item %d: cantidad is too large", i+1)
		}
		if it.UnitPrice.IsNegative() {
			return models.Validationf("item %d: precio must not be negative", i+1)
		}
		if it.UnitPrice.GreaterThan(MaxPrice) {
			return models.Validationf("item %d: precio is too large", i+1)
		}
	}
	return nil
}
