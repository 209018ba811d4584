package transport

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoTransport 利用可能なトランスポートが無いエラー
	ErrNoTransport = errors.New("no HTTP transport available")
	// ErrRequestFailed ステータスコードを得る前にリクエストが失敗したエラー
	ErrRequestFailed = errors.New("HTTP request failed")
)

// RequestFailedError 接続やプロトコルの失敗
type RequestFailedError struct {
	Message string
	Err     error
}

func (e *RequestFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 原因のエラーを返す
func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// Is errors.Isでの比較
func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

func requestFailed(message string, err error) error {
	return &RequestFailedError{Message: message, Err: err}
}

// Response HTTPレスポンス
type Response struct {
	StatusCode int
	Body       string
}

// Transport HTTPリクエストを送信する
// bodyが空の場合はリクエストボディを送らない
type Transport interface {
	Invoke(ctx context.Context, method, url string, headers map[string]string, body string) (*Response, error)
}

// Candidate 実行環境で利用可能かどうかを判定できるトランスポート
type Candidate interface {
	Transport
	// Name トランスポート名
	Name() string
	// Available 利用可能かどうか
	Available() bool
}

// Select 最初に利用可能な候補を返す
func Select(candidates ...Candidate) (Candidate, error) {
	for _, c := range candidates {
		if c != nil && c.Available() {
			return c, nil
		}
	}
	return nil, ErrNoTransport
}

// トランスポート名
const (
	NameAuto   = "auto"
	NameNative = "native"
	NameStream = "stream"
)

// New 名前からトランスポートを作成
// "auto" はnative、streamの順に利用可能なものを選ぶ
func New(name string, timeout time.Duration) (Candidate, error) {
	switch name {
	case "", NameAuto:
		return Select(NewNativeTransport(timeout), NewStreamTransport(timeout))
	case NameNative:
		return Select(NewNativeTransport(timeout))
	case NameStream:
		return Select(NewStreamTransport(timeout))
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", ErrNoTransport, name)
	}
}
