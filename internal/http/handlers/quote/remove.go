package quote

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
)

// Delete godoc
// @Summary Удаление предложения
// @Tags Presupuestos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID предложения"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.ErrorResponse
// @Router /presupuestos/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.quote.Delete")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, "failed to delete quote", err)
		return
	}
	render.JSON(w, r, response.Message{Message: "Presupuesto eliminado correctamente"})
}
