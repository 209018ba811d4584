package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNotAnObject JSONがオブジェクトでないエラー
	ErrNotAnObject = errors.New("the JSON does not represent an object")
	// ErrTrailingData JSONの後ろに余分なデータがあるエラー
	ErrTrailingData = errors.New("unexpected data after the JSON value")
)

// Encode FieldsをJSONにエンコード
// キーは挿入順で出力し、スラッシュやHTML文字はエスケープしない
func Encode(f *Fields) ([]byte, error) {
	var sb strings.Builder
	if err := writeObject(&sb, f); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// Decode JSONを値にデコード
// 整数として表現できる数値はKindInt、それ以外の数値はKindFloatになる
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return NullValue(), err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = ErrTrailingData
		}
		return NullValue(), err
	}
	return v, nil
}

// DecodeObject JSONオブジェクトをFieldsにデコード
func DecodeObject(data []byte) (*Fields, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if v.Kind() != KindObject {
		return nil, ErrNotAnObject
	}
	return v.Object(), nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return NullValue(), err
	}

	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return NullValue(), fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return FloatValue(f), nil
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return NullValue(), err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return NullValue(), err
			}
			return Value{kind: KindList, list: items}, nil
		case '{':
			fields := NewFields()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return NullValue(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return NullValue(), fmt.Errorf("unexpected object key %v", keyTok)
				}
				item, err := decodeValue(dec)
				if err != nil {
					return NullValue(), err
				}
				fields.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return NullValue(), err
			}
			return ObjectValue(fields), nil
		}
	}
	return NullValue(), fmt.Errorf("unexpected JSON token %v", tok)
}

func writeValue(sb *strings.Builder, v Value) error {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return fmt.Errorf("unsupported float value: %v", v.f)
		}
		data, err := json.Marshal(v.f)
		if err != nil {
			return err
		}
		sb.Write(data)
	case KindString:
		return writeString(sb, v.s)
	case KindList:
		sb.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeValue(sb, item); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case KindObject:
		return writeObject(sb, v.object)
	case KindEntity:
		return writeObject(sb, v.entity.Fields())
	}
	return nil
}

func writeObject(sb *strings.Builder, f *Fields) error {
	sb.WriteByte('{')
	first := true
	var err error
	f.Range(func(name string, v Value) bool {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		if err = writeString(sb, name); err != nil {
			return false
		}
		sb.WriteByte(':')
		err = writeValue(sb, v)
		return err == nil
	})
	if err != nil {
		return err
	}
	sb.WriteByte('}')
	return nil
}

func writeString(sb *strings.Builder, s string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	sb.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return nil
}
