package quote

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// List godoc
// @Summary Список предложений
// @Description От новых к старым. q ищет по номеру или имени клиента, estado фильтрует по статусу.
// @Tags Presupuestos
// @Produce json
// @Security BearerAuth
// @Param q query string false "Поиск"
// @Param estado query string false "pendiente | convertido"
// @Success 200 {array} models.Quote
// @Failure 422 {object} response.ErrorResponse
// @Router /presupuestos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.quote.List")

	query := r.URL.Query()
	list, err := h.service.List(r.Context(), models.DocumentFilter{
		Search: query.Get("q"),
		Status: query.Get("estado"),
	})
	if err != nil {
		response.Fail(w, r, log, "failed to list quotes", err)
		return
	}

	log.Debug("list quotes", slog.Int("count", len(list)))
	render.JSON(w, r, list)
}
