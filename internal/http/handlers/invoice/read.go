package invoice

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
)

// Read godoc
// @Summary Счёт по ID
// @Tags Facturas
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID счёта"
// @Success 200 {object} models.Invoice
// @Failure 404 {object} response.ErrorResponse
// @Router /facturas/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.invoice.Read")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	inv, err := h.service.Read(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, "failed to read invoice", err)
		return
	}
	render.JSON(w, r, inv)
}
