package quote

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Update godoc
// @Summary Обновление предложения
// @Description Заменяет клиента, строки и примечания. Преобразованное предложение изменить нельзя.
// @Tags Presupuestos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID предложения"
// @Param request body models.DummyQuote true "Предложение"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /presupuestos/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.quote.Update")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}
	var req models.DummyQuote
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		response.Fail(w, r, log, "failed to update quote", err)
		return
	}
	render.JSON(w, r, response.Message{Message: "Presupuesto actualizado correctamente"})
}
