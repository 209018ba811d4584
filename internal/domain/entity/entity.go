package entity

import (
	"fmt"
	"reflect"
	"strconv"
)

// Entity 1つのJSONオブジェクトに対する型付きビュー
type Entity interface {
	// Fields 所有するフィールドストアを返す
	Fields() *Fields
	// RequiredFields 必須フィールド名を宣言順で返す
	RequiredFields() []string
}

// Base Entityの共通実装
// 具象エンティティはBaseを埋め込み、RequiredFieldsと型付きアクセサを追加する
type Base struct {
	fields *Fields
}

// NewBase フィールドストアを所有するBaseを作成。nilの場合は空のストアを使う
func NewBase(fields *Fields) Base {
	if fields == nil {
		fields = NewFields()
	}
	return Base{fields: fields}
}

// Fields フィールドストアを返す
func (b *Base) Fields() *Fields {
	if b.fields == nil {
		b.fields = NewFields()
	}
	return b.fields
}

// Value 指定した型のいずれかであることを検証して値を返す
// 値がnullの場合、requiredならMissingFieldError、そうでなければnull値を返す
func (b *Base) Value(name string, required bool, kinds ...Kind) (Value, error) {
	v, _ := b.Fields().Get(name)
	if v.IsNull() {
		if required {
			return NullValue(), &MissingFieldError{Field: name}
		}
		return NullValue(), nil
	}
	if !kindIn(v.Kind(), kinds) {
		return NullValue(), newWrongFieldType(name, v.Kind().String(), kinds...)
	}
	return v, nil
}

// GetString 文字列フィールドを取得。存在しない場合は空文字
func (b *Base) GetString(name string, required bool) (string, error) {
	v, err := b.Value(name, required, KindString)
	if err != nil || v.IsNull() {
		return "", err
	}
	return v.String(), nil
}

// GetInt 整数フィールドを取得。存在しない場合はnil
func (b *Base) GetInt(name string, required bool) (*int64, error) {
	v, err := b.Value(name, required, KindInt)
	if err != nil || v.IsNull() {
		return nil, err
	}
	i := v.Int()
	return &i, nil
}

// GetBool 真偽値フィールドを取得
// allow01がtrueの場合、整数0/1もfalse/trueとして受け付ける
func (b *Base) GetBool(name string, allow01 bool, required bool) (*bool, error) {
	kinds := []Kind{KindBool}
	if allow01 {
		kinds = append(kinds, KindInt)
	}
	v, err := b.Value(name, required, kinds...)
	if err != nil || v.IsNull() {
		return nil, err
	}
	result, ok := toBool(v, allow01)
	if !ok {
		return nil, newWrongFieldType(name, v.Kind().String(), kinds...)
	}
	return &result, nil
}

// GetStrings 文字列配列フィールドを取得
func (b *Base) GetStrings(name string, required bool) ([]string, error) {
	items, err := b.list(name, required)
	if err != nil || items == nil {
		return nil, err
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item.Kind() != KindString {
			return nil, newWrongFieldType(name, "array of "+item.Kind().String(), KindString)
		}
		result = append(result, item.String())
	}
	return result, nil
}

// GetInts 整数配列フィールドを取得
func (b *Base) GetInts(name string, required bool) ([]int64, error) {
	items, err := b.list(name, required)
	if err != nil || items == nil {
		return nil, err
	}
	result := make([]int64, 0, len(items))
	for _, item := range items {
		if item.Kind() != KindInt {
			return nil, newWrongFieldType(name, "array of "+item.Kind().String(), KindInt)
		}
		result = append(result, item.Int())
	}
	return result, nil
}

// GetBools 真偽値配列フィールドを取得
func (b *Base) GetBools(name string, allow01 bool, required bool) ([]bool, error) {
	items, err := b.list(name, required)
	if err != nil || items == nil {
		return nil, err
	}
	result := make([]bool, 0, len(items))
	for _, item := range items {
		v, ok := toBool(item, allow01)
		if !ok {
			return nil, newWrongFieldType(name, "array of "+item.Kind().String(), KindBool)
		}
		result = append(result, v)
	}
	return result, nil
}

// GetCustom 任意構造（配列またはオブジェクト）のフィールドを取得
func (b *Base) GetCustom(name string, required bool) (Value, error) {
	return b.Value(name, required, KindList, KindObject)
}

// GetCustoms 任意構造の配列フィールドを取得
func (b *Base) GetCustoms(name string, required bool) ([]Value, error) {
	items, err := b.list(name, required)
	if err != nil || items == nil {
		return nil, err
	}
	for _, item := range items {
		if item.Kind() != KindList && item.Kind() != KindObject {
			return nil, newWrongFieldType(name, "array of "+item.Kind().String(), KindList, KindObject)
		}
	}
	return items, nil
}

func (b *Base) list(name string, required bool) ([]Value, error) {
	v, err := b.Value(name, required, KindList)
	if err != nil || v.IsNull() {
		return nil, err
	}
	return v.List(), nil
}

// Set 値をそのまま設定
func (b *Base) Set(name string, v Value) {
	b.Fields().Set(name, v)
}

// Unset フィールドを削除
func (b *Base) Unset(name string) {
	b.Fields().Delete(name)
}

// SetString 文字列を設定。空文字の場合はフィールドを削除
func (b *Base) SetString(name, value string) {
	if value == "" {
		b.Unset(name)
		return
	}
	b.Set(name, StringValue(value))
}

// SetInt 整数を設定。nilの場合はフィールドを削除
func (b *Base) SetInt(name string, value *int64) {
	if value == nil {
		b.Unset(name)
		return
	}
	b.Set(name, IntValue(*value))
}

// SetBool 真偽値を設定。nilの場合はフィールドを削除
func (b *Base) SetBool(name string, value *bool) {
	if value == nil {
		b.Unset(name)
		return
	}
	b.Set(name, BoolValue(*value))
}

// SetStrings 文字列配列を設定。nilの場合はフィールドを削除
func (b *Base) SetStrings(name string, values []string) {
	if values == nil {
		b.Unset(name)
		return
	}
	items := make([]Value, len(values))
	for i, s := range values {
		items[i] = StringValue(s)
	}
	b.Set(name, Value{kind: KindList, list: items})
}

// SetInts 整数配列を設定。nilの場合はフィールドを削除
func (b *Base) SetInts(name string, values []int64) {
	if values == nil {
		b.Unset(name)
		return
	}
	items := make([]Value, len(values))
	for i, n := range values {
		items[i] = IntValue(n)
	}
	b.Set(name, Value{kind: KindList, list: items})
}

// SetBools 真偽値配列を設定。nilの場合はフィールドを削除
func (b *Base) SetBools(name string, values []bool) {
	if values == nil {
		b.Unset(name)
		return
	}
	items := make([]Value, len(values))
	for i, v := range values {
		items[i] = BoolValue(v)
	}
	b.Set(name, Value{kind: KindList, list: items})
}

// SetCustom 任意構造の値を設定。nullの場合はフィールドを削除
func (b *Base) SetCustom(name string, v Value) error {
	if v.IsNull() {
		b.Unset(name)
		return nil
	}
	if v.Kind() != KindList && v.Kind() != KindObject {
		return newWrongFieldType(name, v.Kind().String(), KindList, KindObject)
	}
	b.Set(name, v)
	return nil
}

// SetCustoms 任意構造の配列を設定。nilの場合はフィールドを削除
func (b *Base) SetCustoms(name string, values []Value) error {
	if values == nil {
		b.Unset(name)
		return nil
	}
	for _, v := range values {
		if v.Kind() != KindList && v.Kind() != KindObject {
			return newWrongFieldType(name, "array of "+v.Kind().String(), KindList, KindObject)
		}
	}
	b.Set(name, ListValue(values...))
	return nil
}

// GetEntity ネストしたエンティティを取得
// オブジェクトとして保持されている場合はbuildで型付きエンティティに変換し、ストアに書き戻す
func GetEntity[T Entity](b *Base, name string, build func(*Fields) T, required bool) (T, error) {
	var zero T
	v, err := b.Value(name, required, KindObject, KindEntity)
	if err != nil || v.IsNull() {
		return zero, err
	}
	e, err := hydrate(name, v, build)
	if err != nil {
		return zero, err
	}
	b.Set(name, EntityValue(e))
	return e, nil
}

// GetEntities ネストしたエンティティの配列を取得
func GetEntities[T Entity](b *Base, name string, build func(*Fields) T, required bool) ([]T, error) {
	items, err := b.list(name, required)
	if err != nil || items == nil {
		return nil, err
	}
	result := make([]T, 0, len(items))
	stored := make([]Value, 0, len(items))
	for _, item := range items {
		e, err := hydrate(name, item, build)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
		stored = append(stored, EntityValue(e))
	}
	b.Set(name, Value{kind: KindList, list: stored})
	return result, nil
}

// SetEntity ネストしたエンティティを設定。nilの場合はフィールドを削除
func SetEntity[T Entity](b *Base, name string, e T) {
	if isNil(e) {
		b.Unset(name)
		return
	}
	b.Set(name, EntityValue(e))
}

// SetEntities ネストしたエンティティの配列を設定
// 各要素はTか、Tに昇格できる*Fieldsでなければならない
func SetEntities[T Entity](b *Base, name string, items []any, build func(*Fields) T) error {
	if items == nil {
		b.Unset(name)
		return nil
	}
	stored := make([]Value, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case T:
			stored = append(stored, EntityValue(it))
		case *Fields:
			stored = append(stored, EntityValue(build(it)))
		default:
			var zero T
			return &WrongFieldTypeError{
				Field:    name,
				Expected: []string{fmt.Sprintf("array of %T", zero)},
				Actual:   fmt.Sprintf("array containing %T", item),
			}
		}
	}
	b.Set(name, Value{kind: KindList, list: stored})
	return nil
}

func hydrate[T Entity](name string, v Value, build func(*Fields) T) (T, error) {
	var zero T
	switch v.Kind() {
	case KindObject:
		return build(v.Object()), nil
	case KindEntity:
		e, ok := v.Entity().(T)
		if !ok {
			return zero, &WrongFieldTypeError{
				Field:    name,
				Expected: []string{fmt.Sprintf("%T", zero)},
				Actual:   fmt.Sprintf("%T", v.Entity()),
			}
		}
		return e, nil
	default:
		return zero, newWrongFieldType(name, v.Kind().String(), KindObject, KindEntity)
	}
}

// CheckRequiredFields 必須フィールドを再帰的に検証する
// 宣言順・深さ優先で最初に見つかった欠落フィールドをMissingFieldErrorとして返す
func CheckRequiredFields(e Entity) error {
	return checkRequired(e, "")
}

func checkRequired(e Entity, prefix string) error {
	fields := e.Fields()
	for _, name := range e.RequiredFields() {
		v, _ := fields.Get(name)
		switch v.Kind() {
		case KindNull:
			return &MissingFieldError{Field: prefix + name}
		case KindEntity:
			if err := checkRequired(v.Entity(), prefix+name+"."); err != nil {
				return err
			}
		case KindList:
			for i, item := range v.List() {
				if item.Kind() != KindEntity {
					continue
				}
				if err := checkRequired(item.Entity(), prefix+name+"["+strconv.Itoa(i)+"]."); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func kindIn(k Kind, kinds []Kind) bool {
	for _, candidate := range kinds {
		if candidate == k {
			return true
		}
	}
	return false
}

func toBool(v Value, allow01 bool) (bool, bool) {
	switch v.Kind() {
	case KindBool:
		return v.Bool(), true
	case KindInt:
		if !allow01 {
			return false, false
		}
		switch v.Int() {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	}
	return false, false
}

func isNil(e Entity) bool {
	if e == nil {
		return true
	}
	rv := reflect.ValueOf(e)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
