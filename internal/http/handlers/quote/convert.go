package quote

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
)

// Convert godoc
// @Summary Преобразование предложения в счёт
// @Description Создаёт счёт с копией клиента, строк и итогов и помечает предложение как convertido.
// @Description Повторное преобразование отклоняется.
// @Tags Presupuestos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID предложения"
// @Success 201 {object} response.CreatedDocument "Созданный счёт"
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /presupuestos/{id}/convertir [post]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.quote.Convert")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	inv, err := h.service.ConvertToInvoice(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, "failed to convert quote", err)
		return
	}

	log.Info("quote converted", slog.Int64("quote_id", id), slog.Int64("invoice_id", inv.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.CreatedDocument{
		ID:      inv.ID,
		Number:  inv.Number,
		Message: "Presupuesto convertido a factura correctamente",
	})
}
