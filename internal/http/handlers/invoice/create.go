package invoice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Create godoc
// @Summary Создание счёта
// @Description Итоги считаются на сервере. Без номера выдаётся следующий FAC-YYYY-NNN.
// @Tags Facturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyInvoice true "Счёт"
// @Success 201 {object} response.CreatedDocument
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /facturas [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.invoice.Create")

	var req models.DummyInvoice
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	id, number, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, "failed to create invoice", err)
		return
	}

	log.Info("invoice created", slog.Int64("id", id), slog.String("number", number))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.CreatedDocument{ID: id, Number: number, Message: "Factura creada correctamente"})
}
