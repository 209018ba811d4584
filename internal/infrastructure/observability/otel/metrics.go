package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// ゲートウェイ呼び出し数
	GatewayCallCount metric.Int64Counter

	// ゲートウェイ呼び出しの所要時間
	GatewayDuration metric.Float64Histogram

	// MAC不一致の発生件数
	MacMismatchCount metric.Int64Counter

	// 受信した決済結果通知の数
	CallbackCount metric.Int64Counter

	// 確定した決済の数
	PaymentOutcomeCount metric.Int64Counter

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー率
	ErrorCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := otel.Meter(meterName)

	gatewayCallCount, err := meter.Int64Counter(
		"xpay_gateway_calls_total",
		metric.WithDescription("Total number of calls to the payment gateway"),
	)
	if err != nil {
		return nil, err
	}

	gatewayDuration, err := meter.Float64Histogram(
		"xpay_gateway_call_duration_seconds",
		metric.WithDescription("Payment gateway call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	macMismatchCount, err := meter.Int64Counter(
		"xpay_mac_mismatch_total",
		metric.WithDescription("Total number of MAC verification failures"),
	)
	if err != nil {
		return nil, err
	}

	callbackCount, err := meter.Int64Counter(
		"xpay_callbacks_total",
		metric.WithDescription("Total number of payment outcome notifications"),
	)
	if err != nil {
		return nil, err
	}

	paymentOutcomeCount, err := meter.Int64Counter(
		"payments_total",
		metric.WithDescription("Total number of payments by final status"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		GatewayCallCount:    gatewayCallCount,
		GatewayDuration:     gatewayDuration,
		MacMismatchCount:    macMismatchCount,
		CallbackCount:       callbackCount,
		PaymentOutcomeCount: paymentOutcomeCount,
		RequestCount:        requestCount,
		ResponseTime:        responseTime,
		ErrorCount:          errorCount,
	}, nil
}

// RecordGatewayCall ゲートウェイ呼び出しの結果と所要時間を記録
// resultは "ok" またはエラー種別
func (m *Metrics) RecordGatewayCall(ctx context.Context, operation, result string, duration float64) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("result", result),
	)
	m.GatewayCallCount.Add(ctx, 1, attrs)
	m.GatewayDuration.Record(ctx, duration, attrs)
}

// RecordMacMismatch MAC不一致を記録
func (m *Metrics) RecordMacMismatch(ctx context.Context, source string) {
	m.MacMismatchCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("source", source),
		),
	)
}

// RecordCallback 決済結果通知の受信を記録
func (m *Metrics) RecordCallback(ctx context.Context, kind, outcome string) {
	m.CallbackCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("outcome", outcome),
		),
	)
}

// RecordPaymentOutcome 決済の確定を記録
func (m *Metrics) RecordPaymentOutcome(ctx context.Context, status, currency string) {
	m.PaymentOutcomeCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status", status),
			attribute.String("currency", currency),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
