package event

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Create godoc
// @Summary Создание события
// @Tags Eventos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyEvent true "Событие"
// @Success 201 {object} response.Created
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /eventos [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.event.Create")

	var req models.DummyEvent
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, "failed to create event", err)
		return
	}

	log.Info("event created", slog.Int64("id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Created{ID: id, Message: "Evento creado correctamente"})
}
