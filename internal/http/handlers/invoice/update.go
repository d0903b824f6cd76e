package invoice

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Update godoc
// @Summary Обновление счёта
// @Description Заменяет клиента, строки и примечания. Оплаченный счёт изменить нельзя.
// @Tags Facturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID счёта"
// @Param request body models.DummyInvoice true "Счёт"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /facturas/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.invoice.Update")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}
	var req models.DummyInvoice
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		response.Fail(w, r, log, "failed to update invoice", err)
		return
	}
	render.JSON(w, r, response.Message{Message: "Factura actualizada correctamente"})
}
