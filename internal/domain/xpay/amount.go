package xpay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount 金額として解釈できないエラー
var ErrInvalidAmount = errors.New("invalid amount")

// FormatAmount セント単位の金額を小数点付きの文字列にする（5000 → "50.00"、5 → "0.05"）
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseAmount 小数点付きの金額をセント単位にする。端数は四捨五入
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}
