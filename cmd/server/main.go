package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	paymentapp "xpay-gateway/internal/application/payment"
	"xpay-gateway/internal/infrastructure/config"
	"xpay-gateway/internal/infrastructure/gateway"
	otelinfra "xpay-gateway/internal/infrastructure/observability/otel"
	"xpay-gateway/internal/infrastructure/persistence/mysql"
	"xpay-gateway/internal/infrastructure/transport"
	"xpay-gateway/internal/presentation/rest"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	tracer := otelinfra.Tracer("xpay-gateway")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("xpay-gateway")
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	// データベース接続の初期化
	db, err := mysql.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.EnsureSchema(schemaCtx)
	cancelSchema()
	if err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	// ゲートウェイクライアントの初期化
	tr, err := transport.New(cfg.XPay.Transport, cfg.XPay.Timeout)
	if err != nil {
		log.Fatalf("Failed to create HTTP transport: %v", err)
	}
	gatewayClient := gateway.NewClient(&cfg.XPay, tr, logger, metrics)

	// アプリケーションサービスの初期化
	paymentAppService := paymentapp.NewPaymentApplicationService(
		mysql.NewPaymentRepository(db),
		mysql.NewTransactionManager(db),
		gatewayClient,
		paymentapp.URLs{
			Return: cfg.XPay.ReturnURL,
			Back:   cfg.XPay.BackURL,
			Notify: cfg.XPay.NotifyURL,
		},
		logger,
		metrics,
	)

	// REST APIルーターの初期化
	router, err := rest.NewRouter(cfg, logger, metrics, paymentAppService, db)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	address := fmt.Sprintf(":%d", cfg.Server.Port)

	// グレースフルシャットダウンの設定
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("REST API server starting on %s (gateway: %s, environment: %s)",
			address, cfg.XPay.BaseURL(), cfg.XPay.Environment)
		if err := router.Start(address); err != nil {
			log.Printf("REST API server stopped: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down REST API server: %v", err)
	}

	log.Println("Server stopped")
}
