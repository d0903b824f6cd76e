// Package invoice реализует HTTP-обработчики счетов: /api/facturas.
package invoice

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Service описывает интерфейс бизнес-логики счетов.
type Service interface {
	List(ctx context.Context, filter models.DocumentFilter) ([]*models.Invoice, error)
	Read(ctx context.Context, id int64) (*models.Invoice, error)
	Create(ctx context.Context, req models.DummyInvoice) (int64, string, error)
	Update(ctx context.Context, id int64, req models.DummyInvoice) error
	Delete(ctx context.Context, id int64) error
	MarkPaid(ctx context.Context, id int64) error
	Render(ctx context.Context, id int64) ([]byte, error)
}

// Handler обрабатывает запросы к счетам.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: request.NewValidator(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
