package customer

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Update godoc
// @Summary Обновление клиента
// @Description Полная замена изменяемых полей.
// @Tags Clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID клиента"
// @Param request body models.DummyCustomer true "Данные клиента"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /clientes/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.customer.Update")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}
	var req models.DummyCustomer
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		response.Fail(w, r, log, "failed to update customer", err)
		return
	}
	render.JSON(w, r, response.Message{Message: "Cliente actualizado correctamente"})
}
