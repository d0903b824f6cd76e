// Package health реализует открытую проверку доступности API.
package health

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/response"
)

// Response тело ответа проверки доступности.
type Response struct {
	Status    string    `json:"status" example:"OK"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler отвечает на GET /api/health.
type Handler struct {
	log *slog.Logger
	now func() time.Time
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
		now: time.Now,
	}
}

// ServeHTTP godoc
// @Summary Проверка доступности
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Response{
		Status:    response.StatusOK,
		Timestamp: h.now().UTC(),
	})
}
