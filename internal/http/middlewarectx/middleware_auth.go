// Package middlewarectx содержит HTTP middleware: проверку bearer-токена и ограничение частоты запросов.
//
// Auth извлекает токен из заголовка Authorization, проверяет его через сервис аутентификации
// и кладёт личность пользователя в контекст запроса. Отсутствующий токен даёт 401,
// недействительный: 403, оба с телом "unauthorized".
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/allwaysenergy/backoffice/internal/http/response"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// IdentityKey ключ личности пользователя в контексте.
const IdentityKey Key = "identity"

// Authenticator проверяет bearer-токен.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Identity, error)
}

// Auth возвращает middleware, который пропускает только запросы с действительным токеном.
func Auth(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Auth"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			identity, err := auth.Authenticate(r.Context(), bearer(r.Header.Get("Authorization")))
			if err != nil {
				response.Fail(w, r, log, "authentication failed", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// bearer возвращает токен из заголовка вида "Bearer <token>" или пустую строку.
func bearer(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// WithIdentity кладёт личность пользователя в контекст.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFrom достаёт личность пользователя из контекста.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(models.Identity)
	return identity, ok
}
