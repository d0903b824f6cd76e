package event

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
)

// Read godoc
// @Summary Событие по ID
// @Tags Eventos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID события"
// @Success 200 {object} models.Event
// @Failure 404 {object} response.ErrorResponse
// @Router /eventos/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.event.Read")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	e, err := h.service.Read(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, "failed to read event", err)
		return
	}
	render.JSON(w, r, e)
}
