// Package grpc exposes the mock API's gRPC surface: the standard
// grpc.health.v1.Health service reporting the state of the user store.
package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// UserServiceName is the service name reported alongside the overall ("") status.
const UserServiceName = "users"

// Pinger reports whether the backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthService keeps grpc.health.v1 statuses in line with the store.
type HealthService struct {
	srv   *health.Server
	store Pinger
	log   *zap.Logger
}

// NewHealthService creates a HealthService. Statuses start as NOT_SERVING
// until the first Probe.
func NewHealthService(store Pinger, log *zap.Logger) *HealthService {
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	srv.SetServingStatus(UserServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthService{srv: srv, store: store, log: log}
}

// Register attaches the health service to s.
func (h *HealthService) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.srv)
}

// Probe pings the store once and updates the statuses.
func (h *HealthService) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if err := h.store.PingContext(ctx); err != nil {
		h.log.Warn("store ping failed", zap.Error(err))
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.srv.SetServingStatus("", st)
	h.srv.SetServingStatus(UserServiceName, st)
	return st
}

// Run probes every interval until ctx is done.
func (h *HealthService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING and ends open watches.
func (h *HealthService) Shutdown() {
	h.srv.Shutdown()
}
