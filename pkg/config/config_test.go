package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DATABASE_DSN", "")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Equal(t, 5, cfg.Breaker.FailureThreshold)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT", "2.5")
	t.Setenv("BREAKER_RETRY_TIMEOUT", "1m")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, StoreRedis, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 2.5, cfg.Security.RateLimit)
	assert.Equal(t, time.Minute, cfg.Breaker.RetryTimeout)
	assert.True(t, cfg.Observability.TracingEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("METRICS_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 20, cfg.Database.MaxConns)
	assert.True(t, cfg.Observability.MetricsEnabled)
}

func TestDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_SSL_MODE", "")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_NAME", "board")

	cfg := Load()
	assert.Equal(t, "host=db port=5432 user=postgres password=s3cret dbname=board sslmode=disable", cfg.DSN(context.Background()))

	cfg.Database.DSN = "postgres://explicit"
	assert.Equal(t, "postgres://explicit", cfg.DSN(context.Background()))
}
