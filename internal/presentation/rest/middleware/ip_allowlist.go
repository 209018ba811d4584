package middleware

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/labstack/echo/v4"

	otelinfra "xpay-gateway/internal/infrastructure/observability/otel"
)

// IPAllowList 許可するIPアドレスとCIDRの一覧
type IPAllowList struct {
	prefixes []netip.Prefix
}

// NewIPAllowList "10.0.0.1" や "192.168.0.0/16" 形式の一覧からIPAllowListを作成
func NewIPAllowList(entries []string) (*IPAllowList, error) {
	list := &IPAllowList{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid CIDR %q: %w", entry, err)
			}
			list.prefixes = append(list.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid IP address %q: %w", entry, err)
		}
		addr = addr.Unmap()
		list.prefixes = append(list.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return list, nil
}

// Empty 制限が無いかどうかを返す
func (l *IPAllowList) Empty() bool {
	return len(l.prefixes) == 0
}

// Allows IPアドレスが許可されているかどうかを返す
func (l *IPAllowList) Allows(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range l.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// IPAllowListMiddleware 送信元IPを制限するミドルウェア
// 一覧が空の場合は全て許可する
func IPAllowListMiddleware(list *IPAllowList, logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if list == nil || list.Empty() {
				return next(c)
			}

			clientIP := c.RealIP()
			if !list.Allows(clientIP) {
				logger.Warn(c.Request().Context(), "IP address not allowed", map[string]interface{}{
					"ip":   clientIP,
					"path": c.Request().URL.Path,
				})
				return c.JSON(http.StatusForbidden, ErrorResponse{
					Error:   "forbidden",
					Message: "IP address not allowed",
				})
			}

			return next(c)
		}
	}
}
