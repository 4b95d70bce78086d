// Command client is a console front end for a JSONPlaceholder-style /users API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"user-crud-console/internal/adapter/console"
	"user-crud-console/internal/adapter/remote/httpapi"
	"user-crud-console/internal/config"
	"user-crud-console/internal/usecase/userlist"
	"user-crud-console/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("client exited with error: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// stdout belongs to the console
	if cfg.Logger.OutputPath == "stdout" {
		cfg.Logger.OutputPath = "stderr"
	}
	l, err := logger.NewWithConfig(logger.Config{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		OutputPath:     cfg.Logger.OutputPath,
		EnableSampling: cfg.Logger.EnableSampling,
		ServiceName:    "user-crud-console-client",
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    os.Getenv("APP_ENV"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err := l.Sync(); !logger.IsBenignSyncError(err) {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	remote := httpapi.New(cfg.Remote.BaseURL, l,
		httpapi.WithTimeout(time.Duration(cfg.Remote.TimeoutSeconds)*time.Second),
		httpapi.WithUserAgent(cfg.Remote.UserAgent),
	)
	ctrl := userlist.New(remote, console.NewNotifier(os.Stdout), l)
	con := console.New(ctrl, os.Stdout, l)

	l.Info("client started", zap.String("api", cfg.Remote.BaseURL))
	fmt.Fprintf(os.Stdout, "User list @ %s (type help for commands)\n", cfg.Remote.BaseURL)

	if err := ctrl.Load(ctx); err != nil {
		fmt.Fprintf(os.Stdout, "error: %v (use reload to try again)\n", err)
	} else {
		con.Execute(ctx, "list")
	}

	done := make(chan error, 1)
	go func() { done <- con.Run(ctx, os.Stdin) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		fmt.Fprintln(os.Stdout)
		return nil
	}
}
