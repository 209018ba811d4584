package dictionary

import (
	"fmt"
)

// Currency ゲートウェイが受け付ける通貨コード
type Currency string

const (
	CurrencyEUR Currency = "EUR" // ユーロ
)

var currencies = []Currency{CurrencyEUR}

// NewCurrency 新しいCurrencyを作成
func NewCurrency(s string) (Currency, error) {
	c := Currency(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid currency: %s", s)
	}
	return c, nil
}

// Currencies 利用可能な通貨コードを返す
func Currencies() []Currency {
	result := make([]Currency, len(currencies))
	copy(result, currencies)
	return result
}

// String 文字列表現を返す
func (c Currency) String() string {
	return string(c)
}

// Valid 有効な通貨コードかどうかを返す
func (c Currency) Valid() bool {
	for _, known := range currencies {
		if c == known {
			return true
		}
	}
	return false
}
