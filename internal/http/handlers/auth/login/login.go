// Package login реализует HTTP-обработчик входа пользователя.
//
// Обработчик декодирует и валидирует учётные данные, делегирует проверку сервису
// аутентификации и возвращает токен сессии вместе с публичными данными пользователя.
// Неизвестный пользователь и неверный пароль неразличимы для клиента.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/allwaysenergy/backoffice/internal/http/request"
	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Request структура входных данных для авторизации.
type Request struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

// Response успешный ответ входа.
type Response struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (string, models.UserSummary, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом аутентификации.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: request.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по имени и паролю. Возвращает токен сессии.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} Response "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 429 {object} response.ErrorResponse "Слишком много попыток"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(w, r, log, "login failed", err)
		return
	}

	log.Info("login success", slog.String("username", user.Username))
	render.JSON(w, r, Response{Token: token, User: user})
}
