package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIPAllowList(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		wantErr bool
	}{
		{
			name:    "正常系: IPとCIDR",
			entries: []string{"10.0.0.1", "192.168.0.0/16", "2001:db8::/32", ""},
		},
		{
			name:    "異常系: 不正なIP",
			entries: []string{"10.0.0.256"},
			wantErr: true,
		},
		{
			name:    "異常系: 不正なCIDR",
			entries: []string{"10.0.0.0/33"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := NewIPAllowList(tt.entries)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, list.Empty())
		})
	}
}

func TestIPAllowList_Allows(t *testing.T) {
	list, err := NewIPAllowList([]string{"10.0.0.1", "192.168.0.0/16", "2001:db8::/32"})
	require.NoError(t, err)

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.0.0.1", true},
		{"10.0.0.10", false},
		{"192.168.10.20", true},
		{"192.169.0.1", false},
		{"::ffff:192.168.1.1", true},
		{"2001:db8::1", true},
		{"2001:db9::1", false},
		{"not-an-ip", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.want, list.Allows(tt.ip))
		})
	}
}

func TestIPAllowListMiddleware(t *testing.T) {
	list, err := NewIPAllowList([]string{"192.168.0.0/16"})
	require.NoError(t, err)
	empty, err := NewIPAllowList(nil)
	require.NoError(t, err)

	tests := []struct {
		name           string
		list           *IPAllowList
		remoteAddr     string
		forwardedFor   string
		expectedStatus int
	}{
		{
			name:           "正常系: 許可されたIP",
			list:           list,
			remoteAddr:     "192.168.1.5:40000",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "正常系: X-Forwarded-Forの先頭",
			list:           list,
			remoteAddr:     "127.0.0.1:40000",
			forwardedFor:   "192.168.1.5, 10.0.0.1",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "正常系: 一覧が空なら全て許可",
			list:           empty,
			remoteAddr:     "203.0.113.9:40000",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: 許可されていないIP",
			list:           list,
			remoteAddr:     "203.0.113.9:40000",
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/xpay/notify", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwardedFor != "" {
				req.Header.Set(echo.HeaderXForwardedFor, tt.forwardedFor)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := IPAllowListMiddleware(tt.list, newTestLogger())(func(c echo.Context) error {
				return c.String(http.StatusOK, "OK")
			})

			require.NoError(t, handler(c))
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
