package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField 必須フィールドが存在しないエラー
	ErrMissingField = errors.New("missing required field")
	// ErrWrongFieldType フィールドの型が期待と異なるエラー
	ErrWrongFieldType = errors.New("wrong field type")
	// ErrMacMismatch MACが一致しないエラー
	ErrMacMismatch = errors.New("invalid MAC")
)

// MissingFieldError 必須フィールドが存在しない
// Fieldはネストしたエンティティの場合 "errore.codice" や "availableMethods[2].code" の形式
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Is errors.Isでの比較
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// WrongFieldTypeError フィールドの実行時型が期待する型に含まれない
type WrongFieldTypeError struct {
	Field    string
	Expected []string
	Actual   string
}

func (e *WrongFieldTypeError) Error() string {
	return fmt.Sprintf("the field %s has the wrong type (expected: %s, found: %s)",
		e.Field, strings.Join(e.Expected, "|"), e.Actual)
}

// Is errors.Isでの比較
func (e *WrongFieldTypeError) Is(target error) bool {
	return target == ErrWrongFieldType
}

// MacMismatchError 再計算したMACと受信したMACが異なる
type MacMismatchError struct {
	Entity   Entity
	Expected string
	Actual   string
}

func (e *MacMismatchError) Error() string {
	return fmt.Sprintf("invalid MAC (expected: %s, actual: %s)", e.Expected, e.Actual)
}

// Is errors.Isでの比較
func (e *MacMismatchError) Is(target error) bool {
	return target == ErrMacMismatch
}

func newWrongFieldType(field string, actual string, expected ...Kind) *WrongFieldTypeError {
	names := make([]string, len(expected))
	for i, k := range expected {
		names[i] = k.String()
	}
	return &WrongFieldTypeError{Field: field, Expected: names, Actual: actual}
}
