package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"message-board/backend/internal/repository"
	"message-board/backend/internal/service"
	"message-board/backend/pkg/config"
	"message-board/backend/pkg/health"
	"message-board/backend/pkg/logger"
	"message-board/backend/pkg/resilience"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds all the dependencies for the application
type Container struct {
	Config         *config.Config
	Logger         *logger.Logger
	Registry       *prometheus.Registry
	Repository     repository.MessageRepository
	Breaker        *resilience.CircuitBreaker
	MessageService *service.MessageService
	Health         *health.Checker

	closers []func() error
}

// New opens the configured message store and wires the services around it
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	store, closer, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	c := NewWithRepository(cfg, log, store)
	if closer != nil {
		c.closers = append(c.closers, closer)
	}
	return c, nil
}

// NewWithRepository wires the services around an already opened store
func NewWithRepository(cfg *config.Config, log *logger.Logger, store repository.MessageRepository) *Container {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	breakerConfig := resilience.DefaultCircuitBreakerConfig("message-store")
	if cfg.Breaker.FailureThreshold > 0 {
		breakerConfig.FailureThreshold = uint(cfg.Breaker.FailureThreshold)
	}
	if cfg.Breaker.RetryTimeout > 0 {
		breakerConfig.RetryTimeout = cfg.Breaker.RetryTimeout
	}
	breakerConfig.IsFailure = repository.IsStoreFailure
	breaker := resilience.NewCircuitBreaker(breakerConfig, log)

	guarded := repository.NewBreakerRepository(store, breaker)

	checker := health.NewChecker(log, 15*time.Second)
	checker.RegisterStoreCheck(guarded.Ping)
	checker.RegisterBreakerCheck("store-breaker", func() string {
		return string(breaker.State())
	})

	return &Container{
		Config:         cfg,
		Logger:         log,
		Registry:       registry,
		Repository:     guarded,
		Breaker:        breaker,
		MessageService: service.NewMessageService(guarded),
		Health:         checker,
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.MessageRepository, func() error, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := config.NewDB(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get database connection: %w", err)
		}

		repo := repository.NewGormMessageRepository(db)
		if err := repo.Migrate(); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Message store ready", "driver", cfg.Store.Driver)
		return repo, sqlDB.Close, nil

	case config.StoreRedis:
		client, err := config.NewRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Message store ready", "driver", cfg.Store.Driver, "addr", cfg.Redis.Addr)
		return repository.NewRedisMessageRepository(client), client.Close, nil

	case config.StoreMemory:
		log.Warn("Using in-memory message store, data is lost on restart")
		return repository.NewMemoryMessageRepository(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Close releases the store connections
func (c *Container) Close() error {
	var errs []error
	for _, closer := range c.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
