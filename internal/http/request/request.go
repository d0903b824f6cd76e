// Package request содержит общий разбор входящих HTTP-запросов: идентификатор из URL
// и JSON-тело с проверкой тегов validate.
package request

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/lib/sl"
)

// NewValidator создаёт валидатор, который называет поля по их JSON-именам.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ID разбирает положительный идентификатор из параметра {id} маршрута.
// При ошибке записывает ответ 400 и возвращает false.
func ID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		if err == nil {
			err = errors.New("id must be positive")
		}
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return 0, false
	}
	return id, true
}

// Decode читает JSON-тело в dst и проверяет его валидатором.
// Некорректный JSON даёт 400, нарушение тегов: 422. В обоих случаях возвращается false.
func Decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, validate *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		log.Info("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		render.Status(r, http.StatusUnprocessableEntity)
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
		} else {
			render.JSON(w, r, response.Error("validation error"))
		}
		return false
	}
	return true
}
