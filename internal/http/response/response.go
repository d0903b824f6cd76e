// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: тела ошибок, сообщений валидации
// и соответствие ошибок предметной области HTTP-статусам.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/allwaysenergy/backoffice/internal/lib/sl"
	"github.com/allwaysenergy/backoffice/internal/models"
)

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// ErrorResponse тело ответа с ошибкой. Используется и в аннотациях @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// Message ответ на успешное изменение без новых данных.
type Message struct {
	Message string `json:"message" example:"Cliente actualizado correctamente"`
}

// Created ответ на создание записи.
type Created struct {
	ID      int64  `json:"id" example:"1"`
	Message string `json:"message" example:"Cliente creado correctamente"`
}

// CreatedDocument ответ на создание предложения или счёта с выданным номером.
type CreatedDocument struct {
	ID      int64  `json:"id" example:"1"`
	Number  string `json:"numero" example:"PRES-2024-001"`
	Message string `json:"message" example:"Presupuesto creado correctamente"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "gt", "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

// StatusFor сопоставляет ошибку сервисного слоя HTTP-статусу и тексту ответа.
// Неизвестные ошибки превращаются в 500 без подробностей.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrMissingToken):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, models.ErrInvalidToken):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrInvalidCredentials.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, models.ErrNotFound.Error()
	case errors.Is(err, models.ErrAlreadyConverted):
		return http.StatusConflict, models.ErrAlreadyConverted.Error()
	case errors.Is(err, models.ErrAlreadyPaid):
		return http.StatusConflict, models.ErrAlreadyPaid.Error()
	case errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity, validationMessage(err)
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// validationMessage вырезает из цепочки "op: validation error: <msg>" текст после префикса.
func validationMessage(err error) string {
	s := err.Error()
	prefix := models.ErrValidation.Error() + ": "
	if i := strings.Index(s, prefix); i >= 0 {
		return s[i+len(prefix):]
	}
	return models.ErrValidation.Error()
}

// Fail записывает ответ с ошибкой. Ошибки 5xx логируются как Error, остальные как Info.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, msg string, err error) {
	status, text := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(msg, sl.Err(err))
	} else {
		log.Info(msg, slog.Int("status", status), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, Error(text))
}
