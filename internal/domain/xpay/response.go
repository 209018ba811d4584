package xpay

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"xpay-gateway/internal/domain/entity"
)

// Outcome ゲートウェイが返す処理結果（esito）
type Outcome string

const (
	// OutcomeOK 成功
	OutcomeOK Outcome = "OK"
	// OutcomeKO 失敗
	OutcomeKO Outcome = "KO"
	// OutcomeCancel 取消
	OutcomeCancel Outcome = "ANNULLO"
	// OutcomeError エラー
	OutcomeError Outcome = "ERRORE"
	// OutcomePending 保留
	OutcomePending Outcome = "PEN"
)

// IsValid 既知の結果かどうかを返す
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeOK, OutcomeKO, OutcomeCancel, OutcomeError, OutcomePending:
		return true
	}
	return false
}

// String 文字列表現を返す
func (o Outcome) String() string {
	return string(o)
}

// Response ゲートウェイ応答の共通部分
type Response struct {
	entity.Base
}

// newResponse 数値文字列のフィールドを整数に正規化してResponseを作成
// timeStampは常に正規化の対象
func newResponse(f *entity.Fields, numeric ...string) Response {
	if f == nil {
		f = entity.NewFields()
	}
	normalizeNumeric(f, "timeStamp")
	for _, name := range numeric {
		normalizeNumeric(f, name)
	}
	return Response{Base: entity.NewBase(f)}
}

// Esito 処理結果を返す
func (r *Response) Esito() (Outcome, error) {
	s, err := r.GetString("esito", false)
	return Outcome(s), err
}

// RequiredFields 必須フィールド
func (r *Response) RequiredFields() []string {
	return []string{"esito"}
}

func normalizeNumeric(f *entity.Fields, name string) {
	v, ok := f.Get(name)
	if !ok || v.Kind() != entity.KindString {
		return
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		f.Set(name, entity.IntValue(i))
		return
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil && inInt64Range(fl) {
		f.Set(name, entity.IntValue(int64(fl)))
	}
}

// inInt64Range int64に変換しても桁あふれしないかどうか
// 範囲外の値は文字列のまま残す
func inInt64Range(fl float64) bool {
	if math.IsNaN(fl) {
		return false
	}
	return fl >= math.MinInt64 && fl < -math.MinInt64
}

// fieldsFromParams クエリ文字列やフォームのパラメータをフィールドストアに変換
// 同名パラメータは最後の値を採用し、キーは名前順に並べる
func fieldsFromParams(params url.Values) *entity.Fields {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	f := entity.NewFields()
	for _, key := range keys {
		values := params[key]
		if len(values) == 0 {
			continue
		}
		f.Set(key, entity.StringValue(values[len(values)-1]))
	}
	return f
}

func macString(b *entity.Base, name string) (entity.MacField, error) {
	s, err := b.GetString(name, false)
	if err != nil {
		return entity.MacField{}, err
	}
	if s == "" {
		return entity.MacField{Name: name, Value: entity.NullValue()}, nil
	}
	return entity.MacField{Name: name, Value: entity.StringValue(s)}, nil
}

func macInt(b *entity.Base, field, macName string) (entity.MacField, error) {
	i, err := b.GetInt(field, false)
	if err != nil {
		return entity.MacField{}, err
	}
	if i == nil {
		return entity.MacField{Name: macName, Value: entity.NullValue()}, nil
	}
	return entity.MacField{Name: macName, Value: entity.IntValue(*i)}, nil
}

func collectMacFields(getters ...func() (entity.MacField, error)) ([]entity.MacField, error) {
	fields := make([]entity.MacField, 0, len(getters))
	for _, get := range getters {
		f, err := get()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}
