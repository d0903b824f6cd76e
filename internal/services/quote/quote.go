// Package quote содержит бизнес-логику коммерческих предложений:
// расчёт итогов, кэширование, уведомления и преобразование в счёт.
package quote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/allwaysenergy/backoffice/internal/cache"
	"github.com/allwaysenergy/backoffice/internal/lib/money"
	"github.com/allwaysenergy/backoffice/internal/lib/sl"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Repository определяет методы для работы с предложениями в хранилище.
type Repository interface {
	ListQuotes(ctx context.Context, filter models.DocumentFilter) ([]*models.Quote, error)
	GetQuote(ctx context.Context, id int64) (*models.Quote, error)
	CreateQuote(ctx context.Context, q models.Quote) (int64, string, error)
	UpdateQuote(ctx context.Context, q models.Quote) error
	DeleteQuote(ctx context.Context, id int64) ([]int64, error)
	ConvertQuote(ctx context.Context, id int64) (*models.Invoice, error)
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

// Service реализует операции над предложениями.
type Service struct {
	log       *slog.Logger
	repo      Repository
	cache     Cache
	publisher Publisher
	ttl       time.Duration
}

// New создает новый экземпляр Service. ttl задаёт время жизни записи в кэше.
func New(log *slog.Logger, repo Repository, cache Cache, publisher Publisher, ttl time.Duration) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		ttl:       ttl,
	}
}

// List возвращает предложения от новых к старым.
func (s *Service) List(ctx context.Context, filter models.DocumentFilter) ([]*models.Quote, error) {
	const op = "quote.List"
	filter.Search = strings.TrimSpace(filter.Search)
	switch models.QuoteStatus(filter.Status) {
	case "", models.QuotePending, models.QuoteConverted:
	default:
		return nil, fmt.Errorf("%s: %w", op, models.Validationf("unknown estado %q", filter.Status))
	}

	list, err := s.repo.ListQuotes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Read возвращает предложение, используя кэш или хранилище.
func (s *Service) Read(ctx context.Context, id int64) (*models.Quote, error) {
	const op = "quote.Read"
	key := cache.QuoteKey(id)

	var cached models.Quote
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", sl.Op(op), slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	q, err := s.repo.GetQuote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, key, q, s.ttl); err != nil {
		s.log.Warn("failed to add to cache", sl.Op(op), slog.String("key", key), sl.Err(err))
	}
	return q, nil
}

// Create сохраняет предложение со статусом pendiente и пересчитанными итогами.
// Возвращает ID и присвоенный номер.
func (s *Service) Create(ctx context.Context, req models.DummyQuote) (int64, string, error) {
	const op = "quote.Create"
	q, err := build(req)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}

	id, number, err := s.repo.CreateQuote(ctx, q)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("quote created", sl.Op(op), slog.Int64("id", id), slog.String("number", number))

	s.notify(ctx, models.NewDocumentMessage(models.KindQuoteCreated, id, number, q.CustomerID, q.Total, time.Now()))
	return id, number, nil
}

// Update заменяет содержимое предложения и пересчитывает итоги.
// Преобразованное предложение изменить нельзя.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyQuote) error {
	const op = "quote.Update"
	q, err := build(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	q.ID = id

	if err = s.repo.UpdateQuote(ctx, q); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, cache.QuoteKey(id))
	s.log.Info("quote updated", sl.Op(op), slog.Int64("id", id))
	return nil
}

// Delete удаляет предложение. Из кэша убираются и счета, потерявшие ссылку на него.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "quote.Delete"
	invoices, err := s.repo.DeleteQuote(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, append([]string{cache.QuoteKey(id)}, cache.DocumentKeys(nil, invoices)...)...)
	s.log.Info("quote deleted", sl.Op(op), slog.Int64("id", id), slog.Int("detached_invoices", len(invoices)))
	return nil
}

// ConvertToInvoice выставляет счёт по предложению. Повторное преобразование
// возвращает models.ErrAlreadyConverted.
func (s *Service) ConvertToInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	const op = "quote.ConvertToInvoice"
	inv, err := s.repo.ConvertQuote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, cache.QuoteKey(id))
	s.log.Info("quote converted", sl.Op(op), slog.Int64("id", id),
		slog.Int64("invoice_id", inv.ID), slog.String("invoice_number", inv.Number))

	now := time.Now()
	s.notify(ctx, models.NewDocumentMessage(models.KindQuoteConverted, id, inv.Number, inv.CustomerID, inv.Total, now))
	s.notify(ctx, models.NewDocumentMessage(models.KindInvoiceCreated, inv.ID, inv.Number, inv.CustomerID, inv.Total, now))
	return inv, nil
}

// invalidate вызывается только после успешной записи в хранилище.
func (s *Service) invalidate(ctx context.Context, op string, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to remove from cache", sl.Op(op), slog.Any("keys", keys), sl.Err(err))
	}
}

// notify публикует уведомление. Если брокер недоступен, документ всё равно сохранён.
func (s *Service) notify(ctx context.Context, msg models.DocumentMessage) {
	if err := s.publisher.Publish(ctx, msg.Kind, msg); err != nil {
		s.log.Warn("failed to publish document message", slog.String("kind", msg.Kind),
			slog.Int64("document_id", msg.DocumentID), sl.Err(err))
	}
}

func build(req models.DummyQuote) (models.Quote, error) {
	if req.CustomerID <= 0 {
		return models.Quote{}, models.Validationf("cliente_id is required")
	}
	if err := money.CheckItems(req.Items); err != nil {
		return models.Quote{}, err
	}
	items, totals := money.Items(req.Items)
	customerID := req.CustomerID
	return models.Quote{
		CustomerID: &customerID,
		Number:     strings.TrimSpace(req.Number),
		Items:      items,
		Status:     models.QuotePending,
		Notes:      req.Notes,
		Totals:     totals,
	}, nil
}
