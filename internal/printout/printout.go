// Package printout формирует печатную HTML-версию счёта.
package printout

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/allwaysenergy/backoffice/internal/lib/money"
	"github.com/allwaysenergy/backoffice/internal/models"
)

//go:embed templates/*.html
var templates embed.FS

// Company реквизиты в шапке документа.
type Company struct {
	Name    string
	Address string
	City    string
	Phone   string
	Email   string
}

// DefaultCompany реквизиты Allways Energy.
var DefaultCompany = Company{
	Name:    "Allways Energy",
	Address: "Dirección de la empresa",
	City:    "Ciudad, CP",
	Phone:   "XXX XXX XXX",
	Email:   "info@allwaysenergy.com",
}

// Renderer отрисовывает счета по встроенному шаблону.
type Renderer struct {
	tmpl    *template.Template
	company Company
}

type page struct {
	Company    Company
	Invoice    *models.Invoice
	Customer   *models.Customer
	TaxPercent string
}

// New разбирает шаблон. Даты выводятся в зоне loc.
func New(company Company, loc *time.Location) (*Renderer, error) {
	const op = "printout.New"
	funcs := template.FuncMap{
		"upper": strings.ToUpper,
		"eur":   func(d decimal.Decimal) string { return d.StringFixed(2) + " €" },
		"date":  func(t time.Time) string { return t.In(loc).Format("2/1/2006") },
	}
	tmpl, err := template.New("invoice.html").Funcs(funcs).ParseFS(templates, "templates/invoice.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Renderer{tmpl: tmpl, company: company}, nil
}

// Invoice возвращает HTML счёта. customer может быть nil, если клиент удалён.
func (r *Renderer) Invoice(inv *models.Invoice, customer *models.Customer) ([]byte, error) {
	const op = "printout.Invoice"
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, page{
		Company:    r.company,
		Invoice:    inv,
		Customer:   customer,
		TaxPercent: money.TaxRate.Shift(2).String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
