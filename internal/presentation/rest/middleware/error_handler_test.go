package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"xpay-gateway/internal/domain/entity"
	"xpay-gateway/internal/domain/payment"
	"xpay-gateway/internal/infrastructure/gateway"
	otelinfra "xpay-gateway/internal/infrastructure/observability/otel"
	"xpay-gateway/internal/infrastructure/transport"
)

func newTestLogger() *otelinfra.Logger {
	return otelinfra.NewLoggerWithWriter(noop.NewTracerProvider().Tracer("test"), io.Discard)
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "正常系: エラーなし",
			err:            nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: 必須項目の欠落",
			err:            &entity.MissingFieldError{Field: "codTrans"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "missing_field",
		},
		{
			name:           "異常系: 型の不一致",
			err:            &entity.WrongFieldTypeError{Field: "importo", Expected: []string{"integer"}, Actual: "string"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "wrong_field_type",
		},
		{
			name:           "異常系: MAC不一致",
			err:            &entity.MacMismatchError{Expected: "a", Actual: "b"},
			expectedStatus: http.StatusForbidden,
			expectedError:  "mac_mismatch",
		},
		{
			name:           "異常系: ゲートウェイのHTTPエラー",
			err:            &gateway.HTTPError{StatusCode: 500, Body: "boom"},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "gateway_http_error",
		},
		{
			name:           "異常系: ゲートウェイの不正なJSON",
			err:            &gateway.InvalidJSONError{Raw: "x", Reason: errors.New("bad")},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "gateway_invalid_json",
		},
		{
			name:           "異常系: 接続失敗",
			err:            &transport.RequestFailedError{Message: "failed to connect"},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "gateway_unreachable",
		},
		{
			name:           "異常系: 決済が見つからない",
			err:            payment.ErrPaymentNotFound,
			expectedStatus: http.StatusNotFound,
			expectedError:  "payment_not_found",
		},
		{
			name:           "異常系: ラップされた処理済みエラー",
			err:            fmt.Errorf("apply: %w", payment.ErrPaymentAlreadyProcessed),
			expectedStatus: http.StatusConflict,
			expectedError:  "payment_already_processed",
		},
		{
			name:           "異常系: 不正な決済",
			err:            payment.ErrInvalidPayment,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid_payment",
		},
		{
			name:           "異常系: EchoのHTTPエラー",
			err:            echo.NewHTTPError(http.StatusUnauthorized, "unauthorized"),
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Unauthorized",
		},
		{
			name:           "異常系: 文字列でないメッセージのHTTPエラー",
			err:            echo.NewHTTPError(http.StatusBadRequest, map[string]string{"a": "b"}),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Bad Request",
		},
		{
			name:           "異常系: 予期しないエラー",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := ErrorHandlerMiddleware(newTestLogger())(func(c echo.Context) error {
				if tt.err != nil {
					return tt.err
				}
				return c.String(http.StatusOK, "ok")
			})

			require.NoError(t, handler(c))
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedError != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}

func TestErrorHandlerMiddleware_GatewayErrorResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlerMiddleware(newTestLogger())(func(c echo.Context) error {
		return fmt.Errorf("list: %w", &gateway.ResponseError{Code: 96, Message: "Invalid alias"})
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "gateway_error", resp.Error)
	assert.Equal(t, "Invalid alias", resp.Message)
	require.NotNil(t, resp.GatewayCode)
	assert.Equal(t, int64(96), *resp.GatewayCode)
}
