package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"xpay-gateway/internal/infrastructure/config"
	otelinfra "xpay-gateway/internal/infrastructure/observability/otel"
)

// ErrSubjectRequired subが指定されていないエラー
var ErrSubjectRequired = errors.New("subject is required")

// AuthApplicationService マーチャントAPI用のトークンを発行するサービス
type AuthApplicationService struct {
	jwtConfig *config.JWTConfig
	logger    *otelinfra.Logger
	now       func() time.Time
}

// NewAuthApplicationService 新しいAuthApplicationServiceを作成
func NewAuthApplicationService(jwtConfig *config.JWTConfig, logger *otelinfra.Logger) *AuthApplicationService {
	return &AuthApplicationService{
		jwtConfig: jwtConfig,
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateToken /api/v1 で受け付けるHS256署名のJWTを生成
func (s *AuthApplicationService) GenerateToken(ctx context.Context, req *GenerateTokenRequest) (*GenerateTokenResponse, error) {
	ctx, span := otel.Tracer("auth-service").Start(ctx, "AuthApplicationService.GenerateToken")
	defer span.End()

	span.SetAttributes(attribute.String("sub", req.Subject))

	if req.Subject == "" {
		span.RecordError(ErrSubjectRequired)
		span.SetStatus(codes.Error, ErrSubjectRequired.Error())
		return nil, ErrSubjectRequired
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = s.jwtConfig.Expiration
	}

	now := s.now()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   req.Subject,
		Issuer:    s.jwtConfig.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(ctx, "Failed to generate token", err, map[string]interface{}{
			"sub": req.Subject,
		})
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info(ctx, "Token generated", map[string]interface{}{
		"sub":        req.Subject,
		"expires_at": expiresAt.Unix(),
	})

	return &GenerateTokenResponse{
		Token:     tokenString,
		ExpiresIn: int64(ttl.Seconds()),
		ExpiresAt: expiresAt,
		TokenType: "Bearer",
	}, nil
}
