package invoice

import (
	"net/http"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/lib/sl"
)

// Print godoc
// @Summary Печатная форма счёта
// @Tags Facturas
// @Produce html
// @Security BearerAuth
// @Param id path int true "ID счёта"
// @Success 200 {string} string "HTML"
// @Failure 404 {object} response.ErrorResponse
// @Router /facturas/{id}/imprimir [get]
func (h *Handler) Print(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.invoice.Print")

	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	page, err := h.service.Render(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, "failed to render invoice", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		log.Warn("failed to write printable invoice", sl.Err(err))
	}
}
