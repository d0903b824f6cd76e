package customer

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Create godoc
// @Summary Создание клиента
// @Tags Clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyCustomer true "Данные клиента"
// @Success 201 {object} response.Created
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /clientes [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.customer.Create")

	var req models.DummyCustomer
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, "failed to create customer", err)
		return
	}

	log.Info("customer created", slog.Int64("id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Created{ID: id, Message: "Cliente creado correctamente"})
}
