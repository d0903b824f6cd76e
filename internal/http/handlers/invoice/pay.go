package invoice

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
)

// MarkPaid godoc
// @Summary Отметить счёт оплаченным
// @Description Повторная отметка отклоняется, статус не возвращается в pendiente.
// @Tags Facturas
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID счёта"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /facturas/{id}/pagar [post]
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.invoice.MarkPaid")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	if err := h.service.MarkPaid(r.Context(), id); err != nil {
		response.Fail(w, r, log, "failed to mark invoice paid", err)
		return
	}
	render.JSON(w, r, response.Message{Message: "Factura marcada como pagada"})
}
