package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"

	grpcadapter "user-crud-console/internal/adapter/grpc"
	"user-crud-console/internal/adapter/grpc/middleware"
	"user-crud-console/pkg/logger"
	"user-crud-console/pkg/ratelimit"
)

// SetupGRPC creates the gRPC server carrying the health service
func SetupGRPC(health *grpcadapter.HealthService, limiter *ratelimit.Limiter, l *zap.Logger) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			middleware.RateLimit(limiter, l),
		),
	)
	health.Register(grpcServer)

	return grpcServer
}
