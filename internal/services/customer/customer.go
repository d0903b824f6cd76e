// Package customer содержит бизнес-логику реестра клиентов.
package customer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/allwaysenergy/backoffice/internal/cache"
	"github.com/allwaysenergy/backoffice/internal/lib/sl"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Repository определяет методы для работы с клиентами в хранилище.
type Repository interface {
	ListCustomers(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	CreateCustomer(ctx context.Context, c models.Customer) (int64, error)
	UpdateCustomer(ctx context.Context, id int64, c models.Customer) error
	DeleteCustomer(ctx context.Context, id int64) (models.Detached, error)
}

// Cache описывает инвалидацию кэша документов.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Service реализует операции реестра клиентов.
type Service struct {
	log   *slog.Logger
	repo  Repository
	cache Cache
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, cache Cache) *Service {
	return &Service{
		log:   log,
		repo:  repo,
		cache: cache,
	}
}

// List возвращает клиентов от новых к старым с необязательным поиском.
func (s *Service) List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, error) {
	const op = "customer.List"
	filter.Search = strings.TrimSpace(filter.Search)
	list, err := s.repo.ListCustomers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Read возвращает клиента по ID.
func (s *Service) Read(ctx context.Context, id int64) (*models.Customer, error) {
	const op = "customer.Read"
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Create регистрирует клиента и возвращает его ID.
func (s *Service) Create(ctx context.Context, req models.DummyCustomer) (int64, error) {
	const op = "customer.Create"
	c, err := normalize(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateCustomer(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("customer created", sl.Op(op), slog.Int64("id", id))
	return id, nil
}

// Update заменяет все изменяемые поля клиента.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyCustomer) error {
	const op = "customer.Update"
	c, err := normalize(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.repo.UpdateCustomer(ctx, id, c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("customer updated", sl.Op(op), slog.Int64("id", id))
	return nil
}

// Delete удаляет клиента. Его документы и события остаются без ссылки на него.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "customer.Delete"
	detached, err := s.repo.DeleteCustomer(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if keys := cache.DocumentKeys(detached.Quotes, detached.Invoices); len(keys) > 0 {
		if err := s.cache.Invalidate(ctx, keys...); err != nil {
			s.log.Warn("failed to invalidate detached documents", sl.Op(op), sl.Err(err))
		}
	}
	s.log.Info("customer deleted", sl.Op(op), slog.Int64("id", id),
		slog.Int("detached_quotes", len(detached.Quotes)), slog.Int("detached_invoices", len(detached.Invoices)))
	return nil
}

func normalize(req models.DummyCustomer) (models.Customer, error) {
	c := req.ToCustomer()
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" {
		return models.Customer{}, models.Validationf("nombre is required")
	}
	return c, nil
}
