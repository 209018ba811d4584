package entity

import (
	"strconv"
	"strings"
)

// Kind フィールド値の実行時型
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindObject
	KindEntity
)

// String 型名を返す（エラーメッセージ用）
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "double"
	case KindString:
		return "string"
	case KindList:
		return "array"
	case KindObject:
		return "object"
	case KindEntity:
		return "entity"
	default:
		return "unknown"
	}
}

// Value フィールド値
// null / bool / int / float / string / 配列 / オブジェクト / ネストしたエンティティのいずれか
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	list   []Value
	object *Fields
	entity Entity
}

// NullValue null値を作成
func NullValue() Value {
	return Value{}
}

// BoolValue 真偽値を作成
func BoolValue(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// IntValue 整数値を作成
func IntValue(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// FloatValue 浮動小数点値を作成
func FloatValue(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// StringValue 文字列値を作成
func StringValue(v string) Value {
	return Value{kind: KindString, s: v}
}

// ListValue 配列値を作成
func ListValue(items ...Value) Value {
	list := make([]Value, len(items))
	copy(list, items)
	return Value{kind: KindList, list: list}
}

// ObjectValue オブジェクト値を作成
func ObjectValue(fields *Fields) Value {
	if fields == nil {
		return NullValue()
	}
	return Value{kind: KindObject, object: fields}
}

// EntityValue ネストしたエンティティ値を作成
func EntityValue(e Entity) Value {
	if isNil(e) {
		return NullValue()
	}
	return Value{kind: KindEntity, entity: e}
}

// Kind 実行時型を返す
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull nullかどうかを返す
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool 真偽値を返す
func (v Value) Bool() bool {
	return v.b
}

// Int 整数値を返す
func (v Value) Int() int64 {
	return v.i
}

// Float 浮動小数点値を返す
func (v Value) Float() float64 {
	return v.f
}

// List 配列の要素を返す
func (v Value) List() []Value {
	return v.list
}

// Object オブジェクトを返す
func (v Value) Object() *Fields {
	return v.object
}

// Entity ネストしたエンティティを返す
func (v Value) Entity() Entity {
	return v.entity
}

// String 値の文字列表現を返す
// MAC入力やフォーム送信で使う形式: nullは空文字、trueは"1"、falseは空文字、
// 配列とオブジェクトはJSON
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "1"
		}
		return ""
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	default:
		var sb strings.Builder
		if err := writeValue(&sb, v); err != nil {
			return ""
		}
		return sb.String()
	}
}

// clone 値を深くコピーする
// ネストしたエンティティはそのフィールドのコピーをオブジェクトとして保持する
func (v Value) clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.clone()
		}
		return Value{kind: KindList, list: items}
	case KindObject:
		return ObjectValue(v.object.Clone())
	case KindEntity:
		return ObjectValue(v.entity.Fields().Clone())
	default:
		return v
	}
}

// MarshalJSON JSONにエンコード
func (v Value) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	if err := writeValue(&sb, v); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
