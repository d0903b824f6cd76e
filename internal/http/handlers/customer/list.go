package customer

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// List godoc
// @Summary Список клиентов
// @Description Клиенты от новых к старым. q ищет по имени, e-mail или NIF без учёта регистра.
// @Tags Clientes
// @Produce json
// @Security BearerAuth
// @Param q query string false "Поиск"
// @Success 200 {array} models.Customer
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /clientes [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.customer.List")

	list, err := h.service.List(r.Context(), models.CustomerFilter{Search: r.URL.Query().Get("q")})
	if err != nil {
		response.Fail(w, r, log, "failed to list customers", err)
		return
	}

	log.Debug("list customers", slog.Int("count", len(list)))
	render.JSON(w, r, list)
}
