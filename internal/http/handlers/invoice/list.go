package invoice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// List godoc
// @Summary Список счетов
// @Description От новых к старым. q ищет по номеру или имени клиента, estado фильтрует по статусу.
// @Tags Facturas
// @Produce json
// @Security BearerAuth
// @Param q query string false "Поиск"
// @Param estado query string false "pendiente | pagada"
// @Success 200 {array} models.Invoice
// @Failure 422 {object} response.ErrorResponse
// @Router /facturas [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.invoice.List")

	query := r.URL.Query()
	list, err := h.service.List(r.Context(), models.DocumentFilter{
		Search: query.Get("q"),
		Status: query.Get("estado"),
	})
	if err != nil {
		response.Fail(w, r, log, "failed to list invoices", err)
		return
	}

	log.Debug("list invoices", slog.Int("count", len(list)))
	render.JSON(w, r, list)
}
