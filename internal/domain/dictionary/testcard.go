package dictionary

import (
	"fmt"
	"sort"
	"strings"
)

// Card テスト環境で使えるカード
type Card struct {
	positive        bool
	circuit         string
	formattedNumber string
	expiryMonth     int
	expiryYear      int
	cvv             string
}

// PositiveOutcome 成功する決済になるかどうか
func (c Card) PositiveOutcome() bool { return c.positive }

// Circuit カードの決済網（VISA / MASTERCARD）
func (c Card) Circuit() string { return c.circuit }

// FormattedNumber 区切り付きのカード番号
func (c Card) FormattedNumber() string { return c.formattedNumber }

// Number 区切りを除いたカード番号
func (c Card) Number() string {
	return strings.NewReplacer(" ", "", "-", "").Replace(c.formattedNumber)
}

// ExpiryMonth 有効期限の月
func (c Card) ExpiryMonth() int { return c.expiryMonth }

// ExpiryYear 有効期限の年
func (c Card) ExpiryYear() int { return c.expiryYear }

// Expiry 有効期限（MM/YYYY）
func (c Card) Expiry() string {
	if c.expiryYear >= 100 {
		return fmt.Sprintf("%02d/%04d", c.expiryMonth, c.expiryYear)
	}
	return fmt.Sprintf("%02d/%02d", c.expiryMonth, c.expiryYear)
}

// CVV セキュリティコード。空文字の場合は任意の値でよい
func (c Card) CVV() string { return c.cvv }

var testCards = []Card{
	{positive: true, circuit: "VISA", formattedNumber: "4539 9700 0000 0006", expiryMonth: 12, expiryYear: 2030},
	{positive: false, circuit: "VISA", formattedNumber: "4539 9700 0000 0014", expiryMonth: 12, expiryYear: 2030},
	{positive: true, circuit: "MASTERCARD", formattedNumber: "5255 0000 0000 0001", expiryMonth: 12, expiryYear: 2030},
	{positive: false, circuit: "MASTERCARD", formattedNumber: "5255 0000 0000 0019", expiryMonth: 12, expiryYear: 2030},
}

// Circuits テストカードの決済網を重複なし・名前順で返す
// positiveがnilの場合は結果を問わない
func Circuits(positive *bool) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, c := range testCards {
		if positive != nil && c.positive != *positive {
			continue
		}
		if _, ok := seen[c.circuit]; ok {
			continue
		}
		seen[c.circuit] = struct{}{}
		result = append(result, c.circuit)
	}
	sort.Strings(result)
	return result
}

// Cards 条件に合うテストカードを返す。circuitが空文字の場合は決済網を問わない
func Cards(positive *bool, circuit string) []Card {
	var result []Card
	for _, c := range testCards {
		if positive != nil && c.positive != *positive {
			continue
		}
		if circuit != "" && c.circuit != circuit {
			continue
		}
		result = append(result, c)
	}
	return result
}

// SampleCard 条件に合う最初のテストカードを返す
func SampleCard(positive *bool, circuit string) (Card, bool) {
	cards := Cards(positive, circuit)
	if len(cards) == 0 {
		return Card{}, false
	}
	return cards[0], true
}
