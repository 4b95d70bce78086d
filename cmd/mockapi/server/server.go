package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"user-crud-console/cmd/mockapi/di"
	grpcadapter "user-crud-console/internal/adapter/grpc"
	"user-crud-console/internal/config"
)

// healthInterval is how often the store is probed for the gRPC health service.
const healthInterval = 10 * time.Second

// Server holds the mock API's HTTP and gRPC servers
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
	GRPC   *grpc.Server
	Health *grpcadapter.HealthService
}

// New creates a new server instance from the container
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(c.GinHandler, c.RateLimiter, cfg.Logger.ServiceName, l),
		GRPC:   SetupGRPC(c.Health, c.RateLimiter, l),
		Health: c.Health,
	}
}

// Run listens on the configured ports and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	lc := net.ListenConfig{}

	ginLis, err := lc.Listen(ctx, "tcp", ":"+s.Config.App.GinPort)
	if err != nil {
		return fmt.Errorf("failed to listen for gin: %w", err)
	}
	grpcLis, err := lc.Listen(ctx, "tcp", ":"+s.Config.App.GRPCPort)
	if err != nil {
		_ = ginLis.Close()
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}

	return s.Serve(ctx, ginLis, grpcLis)
}

// Serve serves on the given listeners until ctx is done or a server fails,
// then shuts both servers down.
func (s *Server) Serve(ctx context.Context, ginLis, grpcLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("gin REST API running", zap.String("address", ginLis.Addr().String()))
		if err := s.Gin.Serve(ginLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gin server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("gRPC server running", zap.String("address", grpcLis.Addr().String()))
		if err := s.GRPC.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.Health.Run(gctx, healthInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	timeout := time.Duration(s.Config.App.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.Logger.Info("shutting down servers", zap.Duration("timeout", timeout))
	s.Health.Shutdown()

	var errs []error
	if err := s.Gin.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("gin shutdown: %w", err))
	}

	stopped := make(chan struct{})
	go func() {
		s.GRPC.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.GRPC.Stop()
		errs = append(errs, errors.New("gRPC graceful stop timed out"))
	}

	return errors.Join(errs...)
}
