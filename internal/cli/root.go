package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"xpay-gateway/internal/infrastructure/config"
	"xpay-gateway/internal/infrastructure/gateway"
	otelinfra "xpay-gateway/internal/infrastructure/observability/otel"
	"xpay-gateway/internal/infrastructure/transport"
)

// loadConfig ゲートウェイ設定の読み込み（テストで差し替える）
var loadConfig = config.LoadXPay

// options 全コマンド共通のフラグ
type options struct {
	verbose bool
	json    bool
}

// NewRootCommand xpayctlのルートコマンドを作成
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "xpayctl",
		Short: "Nexi XPay gateway tool",
		Long: `xpayctl talks to the Nexi XPay payment gateway.

It lists payment methods, signs hosted payment page requests and verifies
the MAC of outcome callbacks. Credentials are read from XPAY_ALIAS,
XPAY_MAC_KEY, XPAY_ENVIRONMENT and XPAY_BASE_URL (or a .env file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log gateway calls to stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print output as JSON")

	rootCmd.AddCommand(newPaymentMethodsCmd(opts))
	rootCmd.AddCommand(newSignSimplePayCmd(opts))
	rootCmd.AddCommand(newVerifyCallbackCmd(opts))
	rootCmd.AddCommand(newTestCardsCmd(opts))
	rootCmd.AddCommand(newTokenCmd(opts))
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

// Execute ルートコマンドを実行
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// newClient 設定を読み込んでゲートウェイクライアントを作成
func newClient(cmd *cobra.Command, opts *options) (*gateway.Client, *config.XPayConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	tr, err := transport.New(cfg.Transport, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}

	var logOut io.Writer = io.Discard
	if opts.verbose {
		logOut = cmd.ErrOrStderr()
	}
	logger := otelinfra.NewLoggerWithWriter(otelinfra.Tracer("xpayctl"), logOut)

	metrics, err := otelinfra.NewMetrics("xpayctl")
	if err != nil {
		return nil, nil, err
	}

	return gateway.NewClient(cfg, tr, logger, metrics), cfg, nil
}

// printJSON 整形したJSONを出力
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
