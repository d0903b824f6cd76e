// Package main загружает демонстрационные данные в пустую базу back office.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/allwaysenergy/backoffice/internal/app/backoffice"
	"github.com/allwaysenergy/backoffice/internal/app/seed"
	"github.com/allwaysenergy/backoffice/internal/config"
	"github.com/allwaysenergy/backoffice/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("failed to load demo data", sl.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	deps, err := backoffice.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Error("failed to close dependencies", sl.Err(err))
		}
	}()

	svc := deps.Services
	loader := seed.New(logger, svc.Customers, svc.Quotes, svc.Invoices, svc.Events)
	_, err = loader.Load(ctx)
	return err
}
