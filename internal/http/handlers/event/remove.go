package event

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
)

// Delete godoc
// @Summary Удаление события
// @Tags Eventos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID события"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.ErrorResponse
// @Router /eventos/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.event.Delete")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, "failed to delete event", err)
		return
	}
	render.JSON(w, r, response.Message{Message: "Evento eliminado correctamente"})
}
