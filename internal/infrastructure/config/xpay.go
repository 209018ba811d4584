package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
)

// ゲートウェイの既定のベースURL
const (
	DefaultBaseURLTest       = "https://int-ecommerce.nexi.it/"
	DefaultBaseURLProduction = "https://ecommerce.nexi.it/"
)

// EnvironmentTest テスト環境を選ぶXPAY_ENVIRONMENTの値
const EnvironmentTest = "test"

var (
	// ErrMissingAlias 加盟店エイリアスが未設定のエラー
	ErrMissingAlias = errors.New("missing alias in configuration")
	// ErrMissingMacKey MAC鍵が未設定のエラー
	ErrMissingMacKey = errors.New("missing macKey in configuration")
	// ErrInvalidBaseURL ベースURLが不正なエラー
	ErrInvalidBaseURL = errors.New("wrong baseUrl in configuration")
)

// XPayConfig 決済ゲートウェイの設定
type XPayConfig struct {
	Endpoint      string
	MerchantAlias string
	Secret        string
	Environment   string
	Transport     string // "auto", "native", "stream"
	Timeout       time.Duration
	ReturnURL     string // 決済後に顧客を戻すURL
	BackURL       string // キャンセル時に顧客を戻すURL
	NotifyURL     string // サーバ間通知の送信先URL

	// NotifyAllowedIPs サーバ間通知を受け付ける送信元（IPまたはCIDR）。空の場合は制限しない
	NotifyAllowedIPs []string
}

// BaseURL ゲートウェイのベースURL
func (c *XPayConfig) BaseURL() string {
	return c.Endpoint
}

// Alias 加盟店エイリアス
func (c *XPayConfig) Alias() string {
	return c.MerchantAlias
}

// MacKey MAC計算用の秘密鍵
func (c *XPayConfig) MacKey() string {
	return c.Secret
}

// NewXPayConfig キーと値の組から設定を作成
// キー: alias, macKey, environment ("test"でテスト環境), baseUrl (既定値を上書き)
func NewXPayConfig(data map[string]string) (*XPayConfig, error) {
	test := data["environment"] == EnvironmentTest
	baseURL := data["baseUrl"]
	if baseURL == "" {
		if test {
			baseURL = DefaultBaseURLTest
		} else {
			baseURL = DefaultBaseURLProduction
		}
	}
	if !isValidURL(baseURL) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBaseURL, baseURL)
	}
	if data["alias"] == "" {
		return nil, ErrMissingAlias
	}
	if data["macKey"] == "" {
		return nil, ErrMissingMacKey
	}

	env := data["environment"]
	if env == "" {
		env = "production"
	}
	return &XPayConfig{
		Endpoint:      baseURL,
		MerchantAlias: data["alias"],
		Secret:        data["macKey"],
		Environment:   env,
		Transport:     "auto",
		Timeout:       30 * time.Second,
	}, nil
}

// LoadXPay ゲートウェイの設定だけを読み込む（CLI用）
func LoadXPay() (*XPayConfig, error) {
	// .envファイルを読み込む（存在しない場合は無視）
	_ = godotenv.Load()
	return loadXPay()
}

func loadXPay() (*XPayConfig, error) {
	cfg, err := NewXPayConfig(map[string]string{
		"alias":       getEnv("XPAY_ALIAS", ""),
		"macKey":      getEnv("XPAY_MAC_KEY", ""),
		"environment": getEnv("XPAY_ENVIRONMENT", EnvironmentTest),
		"baseUrl":     getEnv("XPAY_BASE_URL", ""),
	})
	if err != nil {
		return nil, err
	}
	cfg.Transport = getEnv("XPAY_TRANSPORT", "auto")
	cfg.Timeout = getEnvAsDuration("XPAY_TIMEOUT", 30*time.Second)
	cfg.ReturnURL = getEnv("XPAY_RETURN_URL", "")
	cfg.BackURL = getEnv("XPAY_BACK_URL", "")
	cfg.NotifyURL = getEnv("XPAY_NOTIFY_URL", "")
	cfg.NotifyAllowedIPs = getEnvAsList("XPAY_NOTIFY_ALLOWED_IPS")
	return cfg, nil
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
