package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("dbgateway")

	require.NoError(t, err)
	assert.Equal(t, "dbgateway", provider.Namespace())
	assert.NotNil(t, provider.MeterProvider())
	assert.NotNil(t, provider.exporter)
	assert.NotNil(t, provider.registry)
}

func TestProvider_Handler(t *testing.T) {
	provider, err := NewProvider("dbgateway")
	require.NoError(t, err)

	output := scrape(t, provider)

	assert.Contains(t, output, "go_goroutines")
	assert.NotContains(t, output, "target_info")
}

func TestProvider_IndependentRegistries(t *testing.T) {
	first, err := NewProvider("dbgateway")
	require.NoError(t, err)
	second, err := NewProvider("dbgateway")
	require.NoError(t, err)

	sm, err := NewStoreMetrics(first.MeterProvider(), "dbgateway")
	require.NoError(t, err)
	sm.RecordRequest(context.Background(), "GET", "ok", 0)

	assert.Contains(t, scrape(t, first), "dbgateway_store_requests_total")
	assert.NotContains(t, scrape(t, second), "dbgateway_store_requests_total")
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("dbgateway")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{meterProvider: nil}

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
