// Package dashboard реализует HTTP-обработчик сводки главной страницы.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Service возвращает сводку.
type Service interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// Handler обрабатывает GET /api/dashboard.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сводка
// @Description Клиенты, ожидающие предложения и их сумма, неоплаченные счета, события сегодня и выручка.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats
// @Failure 500 {object} response.ErrorResponse
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	st, err := h.service.Stats(r.Context())
	if err != nil {
		response.Fail(w, r, log, "failed to collect dashboard stats", err)
		return
	}
	render.JSON(w, r, st)
}
