package transport

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// NativeTransport net/httpのクライアントを使うトランスポート
type NativeTransport struct {
	client *http.Client
}

// NewNativeTransport 新しいNativeTransportを作成
func NewNativeTransport(timeout time.Duration) *NativeTransport {
	return NewNativeTransportWithClient(&http.Client{Timeout: timeout})
}

// NewNativeTransportWithClient HTTPクライアントを指定してNativeTransportを作成
func NewNativeTransportWithClient(client *http.Client) *NativeTransport {
	return &NativeTransport{client: client}
}

// Name トランスポート名
func (t *NativeTransport) Name() string {
	return NameNative
}

// Available 利用可能かどうか
func (t *NativeTransport) Available() bool {
	return t.client != nil
}

// Invoke HTTPリクエストを送信
func (t *NativeTransport) Invoke(ctx context.Context, method, url string, headers map[string]string, body string) (*Response, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, requestFailed("failed to build the request", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	// トレースコンテキストを伝搬
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, requestFailed("failed to send the request", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, requestFailed("failed to read the response body", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(data)}, nil
}
