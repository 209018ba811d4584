package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"xpay-gateway/internal/infrastructure/config"
	otelinfra "xpay-gateway/internal/infrastructure/observability/otel"
	"xpay-gateway/internal/presentation/rest/handler"
	restmiddleware "xpay-gateway/internal/presentation/rest/middleware"
)

// HealthChecker 依存先の疎通確認
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Router REST APIルーター
type Router struct {
	echo            *echo.Echo
	paymentHandler  *handler.PaymentHandler
	callbackHandler *handler.CallbackHandler
}

// NewRouter 新しいRouterを作成
// healthがnilの場合、/healthは常にokを返す
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	paymentService handler.PaymentService,
	health HealthChecker,
) (*Router, error) {
	allowList, err := restmiddleware.NewIPAllowList(cfg.XPay.NotifyAllowedIPs)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// ミドルウェアの外で発生したエラー（ルート未定義など）
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}
		_ = c.JSON(code, restmiddleware.ErrorResponse{
			Error:   http.StatusText(code),
			Message: http.StatusText(code),
		})
	}

	setupMiddleware(e, logger, metrics)

	paymentHandler := handler.NewPaymentHandler(paymentService)
	callbackHandler := handler.NewCallbackHandler(paymentService)

	setupRoutes(e, cfg, logger, allowList, health, paymentHandler, callbackHandler)

	return &Router{
		echo:            e,
		paymentHandler:  paymentHandler,
		callbackHandler: callbackHandler,
	}, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Use(middleware.RequestID())
	e.Use(restmiddleware.SecurityHeadersMiddleware())
	e.Use(restmiddleware.TracingMiddleware())
	e.Use(restmiddleware.MetricsMiddleware(metrics))
	e.Use(restmiddleware.LoggingMiddleware(logger))

	// エラーハンドリングは最も内側で行い、外側のミドルウェアが確定したステータスを参照できるようにする
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func setupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	logger *otelinfra.Logger,
	allowList *restmiddleware.IPAllowList,
	health HealthChecker,
	paymentHandler *handler.PaymentHandler,
	callbackHandler *handler.CallbackHandler,
) {
	// マーチャント向けAPI
	api := e.Group("/api/v1", restmiddleware.AuthMiddleware(&cfg.JWT, logger))
	api.POST("/payments", paymentHandler.StartPayment)
	api.GET("/payments/:cod_trans", paymentHandler.GetPayment)
	api.GET("/payment-methods", paymentHandler.ListPaymentMethods)

	// ゲートウェイと顧客のブラウザからの戻り先（JWTは不要）
	// notifyとreturnはMACで検証する。cancelにはMACが無いため状態を変更しない
	xpayGroup := e.Group("/xpay")
	xpayGroup.POST("/notify", callbackHandler.Notify, restmiddleware.IPAllowListMiddleware(allowList, logger))
	xpayGroup.GET("/return", callbackHandler.Return)
	xpayGroup.GET("/cancel", callbackHandler.Cancel)

	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", func(c echo.Context) error {
		if health != nil {
			if err := health.HealthCheck(c.Request().Context()); err != nil {
				logger.Error(c.Request().Context(), "Health check failed", err, nil)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

// ServeHTTP http.Handlerとして振る舞う
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.echo.ServeHTTP(w, req)
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown 処理中のリクエストを待ってサーバーを停止
func (r *Router) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}
