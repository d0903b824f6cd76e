package event

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/response"
	eventservice "github.com/allwaysenergy/backoffice/internal/services/event"
)

// List godoc
// @Summary Список событий
// @Description По возрастанию начала. fecha=YYYY-MM-DD выбирает события этого дня в часовом поясе компании,
// @Description desde/hasta задают диапазон (дата или отметка времени).
// @Tags Eventos
// @Produce json
// @Security BearerAuth
// @Param fecha query string false "День"
// @Param desde query string false "Начало диапазона"
// @Param hasta query string false "Конец диапазона"
// @Success 200 {array} models.Event
// @Failure 422 {object} response.ErrorResponse
// @Router /eventos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.event.List")

	query := r.URL.Query()
	list, err := h.service.List(r.Context(), eventservice.Query{
		Date: query.Get("fecha"),
		From: query.Get("desde"),
		To:   query.Get("hasta"),
	})
	if err != nil {
		response.Fail(w, r, log, "failed to list events", err)
		return
	}

	log.Debug("list events", slog.Int("count", len(list)))
	render.JSON(w, r, list)
}
