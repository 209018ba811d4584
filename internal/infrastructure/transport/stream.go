package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StreamTransport TCP（TLS）接続にHTTP/1.1のリクエストを直接書き込むトランスポート
// リクエストごとに接続を開いて閉じる
type StreamTransport struct {
	timeout   time.Duration
	tlsConfig *tls.Config
}

// NewStreamTransport 新しいStreamTransportを作成
func NewStreamTransport(timeout time.Duration) *StreamTransport {
	return NewStreamTransportWithTLS(timeout, nil)
}

// NewStreamTransportWithTLS TLS設定を指定してStreamTransportを作成
func NewStreamTransportWithTLS(timeout time.Duration, tlsConfig *tls.Config) *StreamTransport {
	return &StreamTransport{timeout: timeout, tlsConfig: tlsConfig}
}

// Name トランスポート名
func (t *StreamTransport) Name() string {
	return NameStream
}

// Available 利用可能かどうか
func (t *StreamTransport) Available() bool {
	return true
}

// Invoke HTTPリクエストを送信
func (t *StreamTransport) Invoke(ctx context.Context, method, rawURL string, headers map[string]string, body string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, requestFailed("invalid URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, requestFailed("unsupported URL scheme "+u.Scheme, nil)
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	conn, err := t.dial(ctx, u)
	if err != nil {
		return nil, requestFailed("failed to connect to "+u.Host, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, requestFailed("failed to build the request", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	req.Close = true

	if err := req.Write(conn); err != nil {
		return nil, requestFailed("failed to write the request", err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		return nil, requestFailed("failed to retrieve the HTTP status code", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, requestFailed("failed to read the response body", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(data)}, nil
}

func (t *StreamTransport) dial(ctx context.Context, u *url.URL) (net.Conn, error) {
	host := u.Host
	if u.Port() == "" {
		if u.Scheme == "https" {
			host = net.JoinHostPort(u.Hostname(), "443")
		} else {
			host = net.JoinHostPort(u.Hostname(), "80")
		}
	}

	if u.Scheme == "https" {
		cfg := &tls.Config{MinVersion: tls.VersionTLS12}
		if t.tlsConfig != nil {
			cfg = t.tlsConfig.Clone()
		}
		if cfg.ServerName == "" {
			cfg.ServerName = u.Hostname()
		}
		dialer := &tls.Dialer{Config: cfg}
		return dialer.DialContext(ctx, "tcp", host)
	}

	var dialer net.Dialer
	return dialer.DialContext(ctx, "tcp", host)
}
