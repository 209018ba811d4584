package auth

import "time"

// GenerateTokenRequest トークン生成リクエスト
type GenerateTokenRequest struct {
	Subject string        // 呼び出し元のシステム名（例: "shop-frontend"）
	TTL     time.Duration // 0の場合は設定の有効期間
}

// GenerateTokenResponse トークン生成レスポンス
type GenerateTokenResponse struct {
	Token     string
	ExpiresIn int64  // 秒単位
	ExpiresAt time.Time
	TokenType string // "Bearer"
}
