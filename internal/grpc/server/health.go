// Package server реализует gRPC-сервер проверки состояния (grpc.health.v1.Health).
//
// Статус обслуживания периодически пересчитывается по доступности базы данных:
// пока хранилище отвечает на Ping, сервис отдаёт SERVING, иначе NOT_SERVING.
package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/allwaysenergy/backoffice/internal/lib/sl"
)

// ServiceName имя сервиса в запросах Check.
const ServiceName = "backoffice"

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer отдаёт состояние сервиса по gRPC.
type HealthServer struct {
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	pinger     Pinger
	interval   time.Duration
	log        *slog.Logger
}

// NewHealthServer создаёт сервер на переданном listener.
func NewHealthServer(log *slog.Logger, lis net.Listener, pinger Pinger, interval time.Duration) *HealthServer {
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	return &HealthServer{
		grpcServer: grpcServer,
		health:     hs,
		listener:   lis,
		pinger:     pinger,
		interval:   interval,
		log:        log,
	}
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер.
func (s *HealthServer) Run(ctx context.Context) error {
	s.check(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("gRPC health service listening on", slog.String("address", s.listener.Addr().String()))
		errCh <- s.grpcServer.Serve(s.listener)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			return nil
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *HealthServer) check(ctx context.Context) {
	const op = "grpc.server.check"
	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.Ping(pingCtx); err != nil {
		s.log.Warn("storage is not reachable", sl.Op(op), sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
