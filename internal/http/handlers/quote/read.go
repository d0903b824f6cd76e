package quote

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
)

// Read godoc
// @Summary Предложение по ID
// @Tags Presupuestos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID предложения"
// @Success 200 {object} models.Quote
// @Failure 404 {object} response.ErrorResponse
// @Router /presupuestos/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.quote.Read")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	q, err := h.service.Read(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, "failed to read quote", err)
		return
	}
	render.JSON(w, r, q)
}
