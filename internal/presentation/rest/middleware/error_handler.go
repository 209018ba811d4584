package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"xpay-gateway/internal/domain/entity"
	"xpay-gateway/internal/domain/payment"
	"xpay-gateway/internal/infrastructure/gateway"
	otelinfra "xpay-gateway/internal/infrastructure/observability/otel"
	"xpay-gateway/internal/infrastructure/transport"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error       string `json:"error"`
	Message     string `json:"message"`
	Code        string `json:"code,omitempty"`
	GatewayCode *int64 `json:"gateway_code,omitempty"`
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			// エラーハンドリング
			return handleError(c, err, logger)
		}
	}
}

// errorMapping ドメインエラーとHTTPステータスの対応
type errorMapping struct {
	target  error
	status  int
	code    string
	message string // ログメッセージ
}

var errorMappings = []errorMapping{
	{entity.ErrMissingField, http.StatusBadRequest, "missing_field", "Missing required field"},
	{entity.ErrWrongFieldType, http.StatusBadRequest, "wrong_field_type", "Wrong field type"},
	{entity.ErrMacMismatch, http.StatusForbidden, "mac_mismatch", "MAC mismatch"},
	{payment.ErrInvalidPayment, http.StatusBadRequest, "invalid_payment", "Invalid payment"},
	{payment.ErrPaymentNotFound, http.StatusNotFound, "payment_not_found", "Payment not found"},
	{payment.ErrPaymentAlreadyProcessed, http.StatusConflict, "payment_already_processed", "Payment already processed"},
	{payment.ErrPaymentMismatch, http.StatusConflict, "payment_mismatch", "Payment mismatch"},
	{gateway.ErrHTTPStatus, http.StatusBadGateway, "gateway_http_error", "Gateway HTTP error"},
	{gateway.ErrInvalidJSON, http.StatusBadGateway, "gateway_invalid_json", "Gateway returned invalid JSON"},
	{transport.ErrRequestFailed, http.StatusBadGateway, "gateway_unreachable", "Gateway request failed"},
	{transport.ErrNoTransport, http.StatusBadGateway, "gateway_unreachable", "No HTTP transport available"},
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	// ゲートウェイのエラー応答はコードとメッセージを返す
	var respErr *gateway.ResponseError
	if errors.As(err, &respErr) {
		logger.Warn(ctx, "Gateway error response", map[string]interface{}{
			"gateway_code": respErr.Code,
			"message":      respErr.Message,
		})
		code := respErr.Code
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:       "gateway_error",
			Message:     respErr.Message,
			GatewayCode: &code,
		})
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		logger.Warn(ctx, m.message, map[string]interface{}{
			"error": err.Error(),
		})
		message := err.Error()
		if m.status >= http.StatusInternalServerError {
			message = "The payment gateway could not be reached"
		}
		return c.JSON(m.status, ErrorResponse{
			Error:   m.code,
			Message: message,
		})
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message := ""
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:   http.StatusText(httpErr.Code),
			Message: message,
		})
	}

	// 予期しないエラー
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "An unexpected error occurred",
	})
}
