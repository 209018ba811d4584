package dictionary

import (
	"fmt"
	"regexp"
	"strings"
)

// Language 決済ページの表示言語
type Language string

const (
	LanguageARA Language = "ARA" // アラビア語
	LanguageCHI Language = "CHI" // 中国語
	LanguageENG Language = "ENG" // 英語
	LanguageFRA Language = "FRA" // フランス語
	LanguageGER Language = "GER" // ドイツ語
	LanguageITA Language = "ITA" // イタリア語
	LanguageJPN Language = "JPN" // 日本語
	LanguagePOR Language = "POR" // ポルトガル語
	LanguageRUS Language = "RUS" // ロシア語
	LanguageSPA Language = "SPA" // スペイン語
)

var languages = []Language{
	LanguageARA, LanguageCHI, LanguageENG, LanguageFRA, LanguageGER,
	LanguageITA, LanguageJPN, LanguagePOR, LanguageRUS, LanguageSPA,
}

// ISO 639-1のコードとの対応
var alpha2ToLanguage = map[string]Language{
	"ar": LanguageARA,
	"zh": LanguageCHI,
	"en": LanguageENG,
	"fr": LanguageFRA,
	"de": LanguageGER,
	"it": LanguageITA,
	"ja": LanguageJPN,
	"pt": LanguagePOR,
	"ru": LanguageRUS,
	"es": LanguageSPA,
}

var localeSeparator = regexp.MustCompile(`\W`)

// NewLanguage 新しいLanguageを作成
func NewLanguage(s string) (Language, error) {
	l := Language(s)
	if !l.Valid() {
		return "", fmt.Errorf("invalid language: %s", s)
	}
	return l, nil
}

// Languages 利用可能な言語を返す
func Languages() []Language {
	result := make([]Language, len(languages))
	copy(result, languages)
	return result
}

// LanguageFromAlpha2 ISO 639-1のコード（"it"）または言語コード（"ita"）から言語を返す
// 見つからない場合は空文字とfalse
func LanguageFromAlpha2(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if l, ok := alpha2ToLanguage[code]; ok {
		return l, true
	}
	for _, l := range languages {
		if strings.ToLower(string(l)) == code {
			return l, true
		}
	}
	return "", false
}

// LanguageFromLocale "it_IT" や "en-US" のようなロケールIDから言語を返す
func LanguageFromLocale(locale string) (Language, bool) {
	parts := localeSeparator.Split(strings.ReplaceAll(locale, "_", "-"), 2)
	return LanguageFromAlpha2(parts[0])
}

// Alpha2 ISO 639-1のコードを返す
func (l Language) Alpha2() string {
	for code, known := range alpha2ToLanguage {
		if known == l {
			return code
		}
	}
	return ""
}

// String 文字列表現を返す
func (l Language) String() string {
	return string(l)
}

// Valid 有効な言語かどうかを返す
func (l Language) Valid() bool {
	for _, known := range languages {
		if l == known {
			return true
		}
	}
	return false
}
