// Package seed загружает демонстрационные данные через сервисы приложения.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/allwaysenergy/backoffice/internal/lib/sl"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Customers операции реестра клиентов, нужные загрузчику.
type Customers interface {
	List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, error)
	Create(ctx context.Context, req models.DummyCustomer) (int64, error)
}

// Quotes операции над предложениями, нужные загрузчику.
type Quotes interface {
	Create(ctx context.Context, req models.DummyQuote) (int64, string, error)
	ConvertToInvoice(ctx context.Context, id int64) (*models.Invoice, error)
}

// Invoices операции над счетами, нужные загрузчику.
type Invoices interface {
	MarkPaid(ctx context.Context, id int64) error
}

// Events операции календаря, нужные загрузчику.
type Events interface {
	Create(ctx context.Context, req models.DummyEvent) (int64, error)
}

// Loader наполняет пустую базу демонстрационным набором.
type Loader struct {
	log       *slog.Logger
	customers Customers
	quotes    Quotes
	invoices  Invoices
	events    Events
}

// Result сколько записей создано.
type Result struct {
	Skipped   bool
	Customers int
	Quotes    int
	Invoices  int
	Events    int
}

// New создает Loader.
func New(log *slog.Logger, customers Customers, quotes Quotes, invoices Invoices, events Events) *Loader {
	return &Loader{
		log:       log,
		customers: customers,
		quotes:    quotes,
		invoices:  invoices,
		events:    events,
	}
}

// Load создает клиентов, предложения, счёт из второго предложения и события календаря.
// Если клиенты уже есть, база не трогается.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	const op = "seed.Load"
	log := l.log.With(sl.Op(op))

	existing, err := l.customers.List(ctx, models.CustomerFilter{})
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(existing) > 0 {
		log.Info("customers already exist, skipping demo data", slog.Int("customers", len(existing)))
		return Result{Skipped: true}, nil
	}

	var res Result
	ids := make([]int64, 0, len(demoCustomers))
	for _, c := range demoCustomers {
		id, err := l.customers.Create(ctx, c)
		if err != nil {
			return res, fmt.Errorf("%s: customer %q: %w", op, c.Name, err)
		}
		ids = append(ids, id)
		res.Customers++
	}

	var quoteIDs []int64
	for _, q := range demoQuotes(ids) {
		id, _, err := l.quotes.Create(ctx, q)
		if err != nil {
			return res, fmt.Errorf("%s: quote %q: %w", op, q.Number, err)
		}
		quoteIDs = append(quoteIDs, id)
		res.Quotes++
	}

	// Второе предложение выставлено счётом и оплачено.
	inv, err := l.quotes.ConvertToInvoice(ctx, quoteIDs[1])
	if err != nil {
		return res, fmt.Errorf("%s: convert: %w", op, err)
	}
	res.Invoices++
	if err = l.invoices.MarkPaid(ctx, inv.ID); err != nil {
		return res, fmt.Errorf("%s: mark paid: %w", op, err)
	}

	for _, e := range demoEvents(ids) {
		if _, err := l.events.Create(ctx, e); err != nil {
			return res, fmt.Errorf("%s: event %q: %w", op, e.Title, err)
		}
		res.Events++
	}

	log.Info("demo data loaded",
		slog.Int("customers", res.Customers),
		slog.Int("quotes", res.Quotes),
		slog.Int("invoices", res.Invoices),
		slog.Int("events", res.Events),
	)
	return res, nil
}

var demoCustomers = []models.DummyCustomer{
	{
		Name:       "Juan Pérez García",
		Phone:      "+34 612 345 678",
		Email:      "juan.perez@email.com",
		Address:    "Calle Mayor, 123",
		TaxID:      "12345678A",
		Locality:   "Madrid",
		Province:   "Madrid",
		PostalCode: "28001",
		Contact:    "Juan Pérez",
		Notes:      "Cliente interesado en instalación solar",
	},
	{
		Name:       "María López Fernández",
		Phone:      "+34 623 456 789",
		Email:      "maria.lopez@email.com",
		Address:    "Avenida de la Paz, 45",
		TaxID:      "87654321B",
		Locality:   "Barcelona",
		Province:   "Barcelona",
		PostalCode: "08001",
		Contact:    "María López",
		Notes:      "Empresa mediana, necesita estudio energético",
	},
	{
		Name:       "Sistemas Energéticos SL",
		Phone:      "+34 634 567 890",
		Email:      "info@sistemasenerg.com",
		Address:    "Polígono Industrial, Nave 12",
		TaxID:      "B12345678",
		Locality:   "Valencia",
		Province:   "Valencia",
		PostalCode: "46001",
		Contact:    "Carlos Ruiz",
		Notes:      "Cliente corporativo, instalaciones de gran tamaño",
	},
}

func item(description string, quantity int, price int64) models.DummyLineItem {
	return models.DummyLineItem{Description: description, Quantity: quantity, UnitPrice: decimal.NewFromInt(price)}
}

func demoQuotes(customers []int64) []models.DummyQuote {
	return []models.DummyQuote{
		{
			CustomerID: customers[0],
			Number:     "PRES-2024-001",
			Items: []models.DummyLineItem{
				item("Panel Solar 450W Monocristalino", 12, 250),
				item("Inversor String 5kW", 1, 800),
				item("Instalación y mano de obra", 1, 1200),
			},
			Notes: "Instalación en tejado sur, óptima orientación",
		},
		{
			CustomerID: customers[1],
			Number:     "PRES-2024-002",
			Items: []models.DummyLineItem{
				item("Panel Solar 540W Bifacial", 20, 320),
				item("Inversor Central 10kW", 1, 1500),
				item("Sistema de monitorización", 1, 500),
			},
			Notes: "Instalación industrial con sistema de monitorización avanzado",
		},
	}
}

func demoEvents(customers []int64) []models.DummyEvent {
	return []models.DummyEvent{
		{
			Title:       "Visita técnica - Juan Pérez",
			Start:       "2024-07-05T10:00:00",
			End:         "2024-07-05T12:00:00",
			CustomerID:  &customers[0],
			Description: "Evaluación del tejado para instalación solar",
			Kind:        string(models.EventMeeting),
		},
		{
			Title:       "Instalación - María López",
			Start:       "2024-07-08T08:00:00",
			End:         "2024-07-08T17:00:00",
			CustomerID:  &customers[1],
			Description: "Instalación completa del sistema fotovoltaico",
			Kind:        string(models.EventInstallation),
		},
		{
			Title:       "Mantenimiento - Sistemas Energéticos",
			Start:       "2024-07-12T09:00:00",
			End:         "2024-07-12T11:00:00",
			CustomerID:  &customers[2],
			Description: "Revisión anual del sistema",
			Kind:        string(models.EventMaintenance),
		},
	}
}
