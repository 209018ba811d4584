package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMetrics(t *testing.T) {
	metrics, err := NewMetrics("test")
	require.NoError(t, err)

	assert.NotNil(t, metrics.GatewayCallCount)
	assert.NotNil(t, metrics.GatewayDuration)
	assert.NotNil(t, metrics.MacMismatchCount)
	assert.NotNil(t, metrics.CallbackCount)
	assert.NotNil(t, metrics.PaymentOutcomeCount)
	assert.NotNil(t, metrics.RequestCount)
	assert.NotNil(t, metrics.ResponseTime)
	assert.NotNil(t, metrics.ErrorCount)
}

func TestMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { otel.SetMeterProvider(previous) })

	metrics, err := NewMetrics("test")
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordGatewayCall(ctx, "ListSupportedPaymentMethods", "ok", 0.12)
	metrics.RecordMacMismatch(ctx, "notify")
	metrics.RecordCallback(ctx, "notify", "OK")
	metrics.RecordPaymentOutcome(ctx, "completed", "EUR")
	metrics.RecordRequest(ctx, "GET", "/health")
	metrics.RecordResponseTime(ctx, "GET", "/health", 0.01)
	metrics.RecordError(ctx, "mac_mismatch")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := make(map[string]bool)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = true
	}
	for _, want := range []string{
		"xpay_gateway_calls_total",
		"xpay_gateway_call_duration_seconds",
		"xpay_mac_mismatch_total",
		"xpay_callbacks_total",
		"payments_total",
		"requests_total",
		"response_time_seconds",
		"errors_total",
	} {
		assert.True(t, names[want], want)
	}
}
