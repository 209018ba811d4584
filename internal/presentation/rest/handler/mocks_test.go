package handler

import (
	"context"
	"io"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/trace/noop"

	paymentapp "xpay-gateway/internal/application/payment"
	otelinfra "xpay-gateway/internal/infrastructure/observability/otel"
	restmiddleware "xpay-gateway/internal/presentation/rest/middleware"
)

// MockPaymentService モック決済サービス
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) StartPayment(ctx context.Context, req *paymentapp.StartPaymentRequest) (*paymentapp.StartPaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.StartPaymentResponse), args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, codTrans string) (*paymentapp.PaymentResponse, error) {
	args := m.Called(ctx, codTrans)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.PaymentResponse), args.Error(1)
}

func (m *MockPaymentService) ListPaymentMethods(ctx context.Context, platform, platformVers, pluginVers string) (*paymentapp.PaymentMethodsResponse, error) {
	args := m.Called(ctx, platform, platformVers, pluginVers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.PaymentMethodsResponse), args.Error(1)
}

func (m *MockPaymentService) HandleNotification(ctx context.Context, params url.Values) (*paymentapp.NotificationResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.NotificationResult), args.Error(1)
}

func (m *MockPaymentService) HandleCustomerReturn(ctx context.Context, params url.Values) (*paymentapp.ReturnResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.ReturnResult), args.Error(1)
}

func (m *MockPaymentService) HandleCustomerCancel(ctx context.Context, params url.Values) (*paymentapp.CancelResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.CancelResult), args.Error(1)
}

// newTestEcho エラーハンドリングミドルウェアを設定したechoを作成
func newTestEcho() *echo.Echo {
	logger := otelinfra.NewLoggerWithWriter(noop.NewTracerProvider().Tracer("test"), io.Discard)
	e := echo.New()
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
	return e
}
