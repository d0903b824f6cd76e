// Package backoffice собирает HTTP API back office: маршруты, зависимости и жизненный цикл процесса.
package backoffice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/allwaysenergy/backoffice/internal/config"
	"github.com/allwaysenergy/backoffice/internal/http/handlers/auth/login"
	"github.com/allwaysenergy/backoffice/internal/http/handlers/customer"
	"github.com/allwaysenergy/backoffice/internal/http/handlers/dashboard"
	"github.com/allwaysenergy/backoffice/internal/http/handlers/event"
	"github.com/allwaysenergy/backoffice/internal/http/handlers/health"
	"github.com/allwaysenergy/backoffice/internal/http/handlers/invoice"
	"github.com/allwaysenergy/backoffice/internal/http/handlers/quote"
	"github.com/allwaysenergy/backoffice/internal/http/middlewarectx"
	"github.com/allwaysenergy/backoffice/internal/metrics"

	_ "github.com/allwaysenergy/backoffice/docs"
)

// Services сервисы, которые обслуживают маршруты API.
type Services struct {
	Auth interface {
		login.Service
		middlewarectx.Authenticator
	}
	Customers customer.Service
	Quotes    quote.Service
	Invoices  invoice.Service
	Events    event.Service
	Dashboard dashboard.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, m *metrics.Metrics, limit config.RateLimit) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		m.Middleware,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)
		r.With(middlewarectx.RateLimitMiddleware(logger, limit.RPS, limit.Burst)).
			Post("/login", login.New(logger, svc.Auth).ServeHTTP)

		// Группа с проверкой токена
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.Auth(svc.Auth, logger))

			customers := customer.New(logger, svc.Customers)
			r.Get("/clientes", customers.List)
			r.Post("/clientes", customers.Create)
			r.Get("/clientes/{id}", customers.Read)
			r.Put("/clientes/{id}", customers.Update)
			r.Delete("/clientes/{id}", customers.Delete)

			quotes := quote.New(logger, svc.Quotes)
			r.Get("/presupuestos", quotes.List)
			r.Post("/presupuestos", quotes.Create)
			r.Get("/presupuestos/{id}", quotes.Read)
			r.Put("/presupuestos/{id}", quotes.Update)
			r.Delete("/presupuestos/{id}", quotes.Delete)
			r.Post("/presupuestos/{id}/convertir", quotes.Convert)

			invoices := invoice.New(logger, svc.Invoices)
			r.Get("/facturas", invoices.List)
			r.Post("/facturas", invoices.Create)
			r.Get("/facturas/{id}", invoices.Read)
			r.Put("/facturas/{id}", invoices.Update)
			r.Delete("/facturas/{id}", invoices.Delete)
			r.Post("/facturas/{id}/pagar", invoices.MarkPaid)
			r.Get("/facturas/{id}/imprimir", invoices.Print)

			events := event.New(logger, svc.Events)
			r.Get("/eventos", events.List)
			r.Post("/eventos", events.Create)
			r.Get("/eventos/{id}", events.Read)
			r.Put("/eventos/{id}", events.Update)
			r.Delete("/eventos/{id}", events.Delete)

			r.Get("/dashboard", dashboard.New(logger, svc.Dashboard).ServeHTTP)
		})
	})

	r.Method(http.MethodGet, "/metrics", m.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
