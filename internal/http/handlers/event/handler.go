// Package event реализует HTTP-обработчики календаря: /api/eventos.
package event

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/models"
	eventservice "github.com/allwaysenergy/backoffice/internal/services/event"
)

// Service описывает интерфейс бизнес-логики календаря.
type Service interface {
	List(ctx context.Context, q eventservice.Query) ([]*models.Event, error)
	Read(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, req models.DummyEvent) (int64, error)
	Update(ctx context.Context, id int64, req models.DummyEvent) error
	Delete(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы к календарю.
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
