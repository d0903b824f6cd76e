// Package invoice содержит бизнес-логику счетов: расчёт итогов, оплату и печатную форму.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/allwaysenergy/backoffice/internal/cache"
	"github.com/allwaysenergy/backoffice/internal/lib/money"
	"github.com/allwaysenergy/backoffice/internal/lib/sl"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Repository определяет методы для работы со счетами в хранилище.
type Repository interface {
	ListInvoices(ctx context.Context, filter models.DocumentFilter) ([]*models.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*models.Invoice, error)
	CreateInvoice(ctx context.Context, inv models.Invoice) (int64, string, error)
	UpdateInvoice(ctx context.Context, inv models.Invoice) error
	DeleteInvoice(ctx context.Context, id int64) ([]int64, error)
	MarkInvoicePaid(ctx context.Context, id int64, paidAt time.Time) error
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
}

// Cache описывает методы для кэширования документов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Publisher отправляет уведомления о документах.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Renderer формирует печатную форму счёта.
type Renderer interface {
	Invoice(inv *models.Invoice, customer *models.Customer) ([]byte, error)
}

// Service реализует операции над счетами.
type Service struct {
	log       *slog.Logger
	repo      Repository
	cache     Cache
	publisher Publisher
	renderer  Renderer
	ttl       time.Duration
	now       func() time.Time
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, cache Cache, publisher Publisher, renderer Renderer, ttl time.Duration) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		renderer:  renderer,
		ttl:       ttl,
		now:       time.Now,
	}
}

// List возвращает счета от новых к старым.
func (s *Service) List(ctx context.Context, filter models.DocumentFilter) ([]*models.Invoice, error) {
	const op = "invoice.List"
	filter.Search = strings.TrimSpace(filter.Search)
	switch models.InvoiceStatus(filter.Status) {
	case "", models.InvoicePending, models.InvoicePaid:
	default:
		return nil, fmt.Errorf("%s: %w", op, models.Validationf("unknown estado %q", filter.Status))
	}

	list, err := s.repo.ListInvoices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Read возвращает счёт, используя кэш или хранилище.
func (s *Service) Read(ctx context.Context, id int64) (*models.Invoice, error) {
	const op = "invoice.Read"
	key := cache.InvoiceKey(id)

	var cached models.Invoice
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", sl.Op(op), slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, key, inv, s.ttl); err != nil {
		s.log.Warn("failed to add to cache", sl.Op(op), slog.String("key", key), sl.Err(err))
	}
	return inv, nil
}

// Create сохраняет счёт со статусом pendiente и пересчитанными итогами.
func (s *Service) Create(ctx context.Context, req models.DummyInvoice) (int64, string, error) {
	const op = "invoice.Create"
	inv, err := build(req)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}

	id, number, err := s.repo.CreateInvoice(ctx, inv)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("invoice created", sl.Op(op), slog.Int64("id", id), slog.String("number", number))

	s.notify(ctx, models.NewDocumentMessage(models.KindInvoiceCreated, id, number, inv.CustomerID, inv.Total, s.now()))
	return id, number, nil
}

// Update заменяет содержимое счёта и пересчитывает итоги. Оплаченный счёт изменить нельзя.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyInvoice) error {
	const op = "invoice.Update"
	inv, err := build(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	inv.ID = id

	if err = s.repo.UpdateInvoice(ctx, inv); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, cache.InvoiceKey(id))
	s.log.Info("invoice updated", sl.Op(op), slog.Int64("id", id))
	return nil
}

// Delete удаляет счёт. Из кэша убираются и предложения, потерявшие ссылку на него.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "invoice.Delete"
	quotes, err := s.repo.DeleteInvoice(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, append([]string{cache.InvoiceKey(id)}, cache.DocumentKeys(quotes, nil)...)...)
	s.log.Info("invoice deleted", sl.Op(op), slog.Int64("id", id), slog.Int("detached_quotes", len(quotes)))
	return nil
}

// MarkPaid отмечает счёт оплаченным. Повторный вызов возвращает models.ErrAlreadyPaid.
func (s *Service) MarkPaid(ctx context.Context, id int64) error {
	const op = "invoice.MarkPaid"
	paidAt := s.now()
	if err := s.repo.MarkInvoicePaid(ctx, id, paidAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, cache.InvoiceKey(id))
	s.log.Info("invoice paid", sl.Op(op), slog.Int64("id", id))

	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		s.log.Warn("failed to load paid invoice for notification", sl.Op(op), slog.Int64("id", id), sl.Err(err))
		inv = &models.Invoice{ID: id}
	}
	s.notify(ctx, models.NewDocumentMessage(models.KindInvoicePaid, id, inv.Number, inv.CustomerID, inv.Total, paidAt))
	return nil
}

// Render возвращает печатную HTML-форму счёта с данными клиента.
func (s *Service) Render(ctx context.Context, id int64) ([]byte, error) {
	const op = "invoice.Render"
	inv, err := s.Read(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var customer *models.Customer
	if inv.CustomerID != nil {
		customer, err = s.repo.GetCustomer(ctx, *inv.CustomerID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	out, err := s.renderer.Invoice(inv, customer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Service) invalidate(ctx context.Context, op string, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to remove from cache", sl.Op(op), slog.Any("keys", keys), sl.Err(err))
	}
}

func (s *Service) notify(ctx context.Context, msg models.DocumentMessage) {
	if err := s.publisher.Publish(ctx, msg.Kind, msg); err != nil {
		s.log.Warn("failed to publish document message", slog.String("kind", msg.Kind),
			slog.Int64("document_id", msg.DocumentID), sl.Err(err))
	}
}

func build(req models.DummyInvoice) (models.Invoice, error) {
	if req.CustomerID <= 0 {
		return models.Invoice{}, models.Validationf("cliente_id is required")
	}
	if req.QuoteID != nil && *req.QuoteID <= 0 {
		return models.Invoice{}, models.Validationf("presupuesto_id must be positive")
	}
	if err := money.CheckItems(req.Items); err != nil {
		return models.Invoice{}, err
	}
	items, totals := money.Items(req.Items)
	customerID := req.CustomerID
	return models.Invoice{
		CustomerID: &customerID,
		QuoteID:    req.QuoteID,
		Number:     strings.TrimSpace(req.Number),
		Items:      items,
		Status:     models.InvoicePending,
		Notes:      req.Notes,
		Totals:     totals,
	}, nil
}
