package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"message-board/backend/pkg/config"
	"message-board/backend/pkg/di"
	"message-board/backend/pkg/health"
	"message-board/backend/pkg/logger"
	"message-board/backend/pkg/observability"
	"message-board/backend/pkg/router"
	"message-board/backend/pkg/secrets"
)

func main() {
	// Loads .env when present
	cfg := config.New()

	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application",
		"version", os.Getenv("APP_VERSION"),
		"env", cfg.Server.Env,
		"store", cfg.Store.Driver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := secrets.Init(log); err != nil {
		log.Warn("Secrets manager unavailable, falling back to environment", "error", err.Error())
	}

	startCtx, cancelStart := context.WithTimeout(ctx, 2*time.Minute)
	container, err := di.New(startCtx, cfg, log)
	cancelStart()
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	var shutdowns []observability.ShutdownFunc
	if cfg.Observability.MetricsEnabled {
		shutdown, err := observability.SetupMetrics(cfg.Observability.ServiceName, container.Registry)
		if err != nil {
			log.LogError(err, "Failed to set up metrics")
			os.Exit(1)
		}
		shutdowns = append(shutdowns, shutdown)
	}
	if cfg.Observability.TracingEnabled {
		shutdown, err := observability.SetupTracing(cfg.Observability.ServiceName)
		if err != nil {
			log.LogError(err, "Failed to set up tracing")
			os.Exit(1)
		}
		shutdowns = append(shutdowns, shutdown)
	}

	r, err := router.New(container)
	if err != nil {
		log.LogError(err, "Failed to initialize router")
		os.Exit(1)
	}
	if err := r.SetupRoutes(); err != nil {
		log.LogError(err, "Failed to register routes")
		os.Exit(1)
	}

	container.Health.Start(ctx)
	go r.RateLimiter.Run(ctx)

	grpcServer := health.NewGRPCServer(container.Health, cfg.Observability.ServiceName, log)
	go func() {
		if err := grpcServer.ListenAndServe(ctx, cfg.Server.GRPCPort); err != nil {
			log.LogError(err, "gRPC health server failed")
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r.Engine,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port, "grpc_port", cfg.Server.GRPCPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.LogError(err, "Server failed to start")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}
	grpcServer.Stop()

	if err := observability.Shutdown(shutdownCtx, shutdowns...); err != nil {
		log.LogError(err, "Failed to flush telemetry")
	}
	if err := container.Close(); err != nil {
		log.LogError(err, "Failed to close message store")
	}

	log.Info("Server exited gracefully")
}
