package customer

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
)

// Delete godoc
// @Summary Удаление клиента
// @Description Предложения и счета клиента сохраняются без ссылки на него.
// @Tags Clientes
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID клиента"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.ErrorResponse
// @Router /clientes/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.customer.Delete")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, "failed to delete customer", err)
		return
	}
	render.JSON(w, r, response.Message{Message: "Cliente eliminado correctamente"})
}
