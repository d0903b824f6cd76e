package customer

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
)

// Read godoc
// @Summary Клиент по ID
// @Tags Clientes
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID клиента"
// @Success 200 {object} models.Customer
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /clientes/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.customer.Read")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	c, err := h.service.Read(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, "failed to read customer", err)
		return
	}
	render.JSON(w, r, c)
}
