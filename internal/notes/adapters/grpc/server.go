// Package grpc содержит gRPC сервер проверки состояния сервиса заметок.
package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"notekeeper/internal/notes/config"
	"notekeeper/pkg/logger"
)

// ServiceName имя сервиса в ответах grpc.health.v1.Health.
const ServiceName = "notekeeper.Notes"

const defaultHealthInterval = 10 * time.Second

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server представляет gRPC сервер проверки состояния.
type Server struct {
	server   *grpc.Server
	health   *health.Server
	pinger   Pinger
	address  string
	interval time.Duration
	listener net.Listener

	done     chan struct{}
	stopOnce sync.Once
}

// New создает новый экземпляр gRPC сервера.
func New(cfg *config.GRPCConfig, pinger Pinger) *Server {
	interval := cfg.HealthInterval
	if interval <= 0 {
		interval = defaultHealthInterval
	}

	server := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)

	return &Server{
		server:   server,
		health:   healthServer,
		pinger:   pinger,
		address:  cfg.GetAddress(),
		interval: interval,
		done:     make(chan struct{}),
	}
}

// CheckHealth опрашивает базу данных и публикует полученный статус.
func (s *Server) CheckHealth(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.Ping(ctx); err != nil {
		logger.Log(ctx).Warn(ctx, "database ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Start запускает gRPC сервер и периодическую проверку базы данных.
func (s *Server) Start(ctx context.Context) error {
	log := logger.Log(ctx)

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener

	s.CheckHealth(ctx)
	log.Info(ctx, "gRPC health server started", zap.String("address", listener.Addr().String()))

	go func() {
		if err := s.server.Serve(listener); err != nil {
			log.Error(ctx, "failed to serve gRPC", zap.Error(err))
		}
	}()
	go s.watch(context.WithoutCancel(ctx))

	return nil
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, s.interval)
			s.CheckHealth(pingCtx)
			cancel()
		}
	}
}

// Addr возвращает фактический адрес прослушивания после Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.address
	}
	return s.listener.Addr().String()
}

// Stop переводит сервис в NOT_SERVING и останавливает gRPC сервер.
func (s *Server) Stop(ctx context.Context) {
	s.stopOnce.Do(func() {
		logger.Log(ctx).Info(ctx, "stopping gRPC health server")

		close(s.done)
		s.health.Shutdown()
		s.server.GracefulStop()
	})
}
