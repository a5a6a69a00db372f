package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupMetricsExposesInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	shutdown, err := SetupMetrics("message-service-test", reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	counter, err := otel.Meter("observability-test").Int64Counter("probe_events")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "probe_events_total" {
			found = true
			assert.Equal(t, 3.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "probe_events_total not exported")
}

func TestSetupTracing(t *testing.T) {
	shutdown, err := SetupTracing("message-service-test")
	require.NoError(t, err)

	_, span := otel.Tracer("observability-test").Start(context.Background(), "probe")
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}

func TestShutdownJoinsErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	err := Shutdown(context.Background(),
		func(context.Context) error { return first },
		nil,
		func(context.Context) error { return nil },
		func(context.Context) error { return second },
	)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.NoError(t, Shutdown(context.Background()))
}
