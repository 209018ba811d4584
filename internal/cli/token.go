package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	authapp "xpay-gateway/internal/application/auth"
	"xpay-gateway/internal/infrastructure/config"
	otelinfra "xpay-gateway/internal/infrastructure/observability/otel"
)

// loadJWTConfig JWT設定の読み込み（テストで差し替える）
var loadJWTConfig = config.LoadJWT

func newTokenCmd(opts *options) *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the merchant API",
		Long: `Issues an HS256 token accepted by the /api/v1 endpoints of the server.
The secret, issuer and default lifetime come from JWT_SECRET, JWT_ISSUER
and JWT_EXPIRATION.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadJWTConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			var logOut io.Writer = io.Discard
			if opts.verbose {
				logOut = cmd.ErrOrStderr()
			}
			logger := otelinfra.NewLoggerWithWriter(otelinfra.Tracer("xpayctl"), logOut)

			resp, err := authapp.NewAuthApplicationService(cfg, logger).GenerateToken(cmd.Context(), &authapp.GenerateTokenRequest{
				Subject: subject,
				TTL:     ttl,
			})
			if err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"token":      resp.Token,
					"token_type": resp.TokenType,
					"expires_in": resp.ExpiresIn,
					"expires_at": resp.ExpiresAt,
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Caller name stored in the sub claim (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRATION)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
