package entity

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// DefaultMacFieldName MACを格納するフィールド名の既定値
const DefaultMacFieldName = "mac"

// Credentials MAC計算に必要な加盟店情報
type Credentials interface {
	// Alias 加盟店エイリアス
	Alias() string
	// MacKey MAC計算用の共有秘密鍵
	MacKey() string
}

// MacField MAC入力の1要素
type MacField struct {
	Name  string
	Value Value
}

// Signable MACの生成と検証ができるエンティティ
type Signable interface {
	Entity
	// AliasFieldName 署名時に加盟店エイリアスを補完するフィールド名。不要な場合は空文字
	AliasFieldName() string
	// MacFieldName MACを格納するフィールド名
	MacFieldName() string
	// MacFields MAC入力となるフィールドを宣言順で返す
	MacFields(cred Credentials) ([]MacField, error)
}

// CalculateMac "name=value" を順に連結し、末尾に秘密鍵を付けたSHA-1の16進表現を返す
func CalculateMac(fields []MacField, macKey string) string {
	var sb strings.Builder
	for _, f := range fields {
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		sb.WriteString(f.Value.String())
	}
	sb.WriteString(macKey)

	sum := sha1.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// ComputeMac エンティティの現在のフィールド値からMACを計算
func ComputeMac(e Signable, cred Credentials) (string, error) {
	fields, err := e.MacFields(cred)
	if err != nil {
		return "", err
	}
	return CalculateMac(fields, cred.MacKey()), nil
}

// Sign 署名済みのフィールドストアを返す
// エンティティ自身は変更せず、深いコピーにエイリアスとMACを設定する
func Sign(e Signable, cred Credentials) (*Fields, error) {
	mac, err := ComputeMac(e, cred)
	if err != nil {
		return nil, err
	}

	data := e.Fields().Clone()
	if name := e.AliasFieldName(); name != "" {
		if v, _ := data.Get(name); v.IsNull() {
			data.Set(name, StringValue(cred.Alias()))
		}
	}
	data.Set(macFieldName(e), StringValue(mac))
	return data, nil
}

// CheckMac 受信したMACを再計算したMACと比較する
func CheckMac(e Signable, cred Credentials) error {
	name := macFieldName(e)
	base := Base{fields: e.Fields()}
	actual, err := base.GetString(name, true)
	if err != nil {
		return err
	}
	if actual == "" {
		return &MissingFieldError{Field: name}
	}

	expected, err := ComputeMac(e, cred)
	if err != nil {
		return err
	}
	if actual != expected {
		return &MacMismatchError{Entity: e, Expected: expected, Actual: actual}
	}
	return nil
}

func macFieldName(e Signable) string {
	if name := e.MacFieldName(); name != "" {
		return name
	}
	return DefaultMacFieldName
}
