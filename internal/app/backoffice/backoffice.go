package backoffice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/allwaysenergy/backoffice/internal/cache"
	"github.com/allwaysenergy/backoffice/internal/config"
	"github.com/allwaysenergy/backoffice/internal/grpc/server"
	"github.com/allwaysenergy/backoffice/internal/lib/jwt"
	"github.com/allwaysenergy/backoffice/internal/lib/rabbitmq"
	"github.com/allwaysenergy/backoffice/internal/lib/sl"
	"github.com/allwaysenergy/backoffice/internal/metrics"
	"github.com/allwaysenergy/backoffice/internal/migrations"
	"github.com/allwaysenergy/backoffice/internal/printout"
	authservice "github.com/allwaysenergy/backoffice/internal/services/auth"
	customerservice "github.com/allwaysenergy/backoffice/internal/services/customer"
	dashboardservice "github.com/allwaysenergy/backoffice/internal/services/dashboard"
	eventservice "github.com/allwaysenergy/backoffice/internal/services/event"
	invoiceservice "github.com/allwaysenergy/backoffice/internal/services/invoice"
	quoteservice "github.com/allwaysenergy/backoffice/internal/services/quote"
	"github.com/allwaysenergy/backoffice/internal/storage"
)

const (
	shutdownTimeout = 15 * time.Second
	healthInterval  = 10 * time.Second
)

// Deps собранные сервисы поверх открытых соединений. Используется сервером API и загрузчиком демо-данных.
type Deps struct {
	Services Services
	Metrics  *metrics.Metrics
	Storage  *storage.Storage

	closers []io.Closer
}

// Close закрывает соединения в обратном порядке открытия.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build открывает хранилище, применяет миграции, подключает кэш и брокер (если заданы)
// и собирает сервисы.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Deps, error) {
	const op = "backoffice.Build"
	deps := &Deps{Metrics: metrics.New()}

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	deps.Storage = db
	deps.closers = append(deps.closers, db)

	if err = migrations.Run(db.DB); err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var documents quoteservice.Cache = cache.Noop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			_ = deps.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		deps.closers = append(deps.closers, redisCache)
		documents = redisCache
	} else {
		logger.Info("redis address is empty, document cache disabled")
	}

	var publisher metrics.Publisher = rabbitmq.NoopPublisher{}
	if cfg.RabbitURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitRetries, cfg.RetryDelay)
		if err != nil {
			_ = deps.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		deps.closers = append(deps.closers, conn)
		ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
		if err != nil {
			_ = deps.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		deps.closers = append(deps.closers, ch)
		publisher = rabbitmq.NewPublisher(ch, cfg.Exchange)
	} else {
		logger.Info("rabbitmq url is empty, document notifications disabled")
	}
	publisher = deps.Metrics.CountingPublisher(publisher)

	loc := cfg.Location()
	renderer, err := printout.New(printout.DefaultCompany, loc)
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	deps.Services = Services{
		Auth:      authservice.New(logger, db, jwtMaker),
		Customers: customerservice.New(logger, db, documents),
		Quotes:    quoteservice.New(logger, db, documents, publisher, cfg.CacheTTL),
		Invoices:  invoiceservice.New(logger, db, documents, publisher, renderer, cfg.CacheTTL),
		Events:    eventservice.New(logger, db, loc),
		Dashboard: dashboardservice.New(db, loc),
	}
	return deps, nil
}

// App процесс back office: HTTP API и необязательный gRPC health.
type App struct {
	server *http.Server
	health *server.HealthServer
	logger *slog.Logger
	deps   *Deps
}

// New собирает приложение по конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "backoffice.New"
	deps, err := Build(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, deps.Services, deps.Metrics, cfg.RateLimit)

	app := &App{
		server: &http.Server{
			Addr:         cfg.AddressHTTP,
			Handler:      router,
			ReadTimeout:  cfg.TimeoutHTTP,
			WriteTimeout: cfg.TimeoutHTTP,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger,
		deps:   deps,
	}

	if cfg.GRPCAddress != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddress)
		if err != nil {
			_ = deps.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.health = server.NewHealthServer(logger, lis, deps.Storage, healthInterval)
	}
	return app, nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает серверы и закрывает соединения.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()
	healthDone := make(chan struct{})
	go func() {
		defer close(healthDone)
		if a.health == nil {
			return
		}
		if err := a.health.Run(healthCtx); err != nil {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down HTTP server gracefully")
	if err := a.server.Shutdown(timeoutCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	stopHealth()
	<-healthDone

	if err := a.deps.Close(); err != nil {
		a.logger.Error("failed to close connections", sl.Err(err))
		runErr = errors.Join(runErr, err)
	}
	return runErr
}
