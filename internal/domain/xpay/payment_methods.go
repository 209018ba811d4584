package xpay

import (
	"xpay-gateway/internal/domain/entity"
)

// 決済手段の種別
const (
	// MethodTypePaymentCircuit VISAやMastercardなどのカード決済網
	MethodTypePaymentCircuit = "CC"
	// MethodTypeAlternative PayPalなどの代替決済手段
	MethodTypeAlternative = "APM"
)

// PaymentMethodsRequest 利用可能な決済手段の一覧取得リクエスト
type PaymentMethodsRequest struct {
	entity.Base
}

// NewPaymentMethodsRequest PaymentMethodsRequestを作成
// platformは利用中のCMS名（特に無ければ "custom"）、バージョンは特に無ければ "0"
func NewPaymentMethodsRequest(platform, platformVers, pluginVers string, timeStamp int64) *PaymentMethodsRequest {
	r := &PaymentMethodsRequest{Base: entity.NewBase(nil)}
	r.SetPlatform(platform)
	r.SetPlatformVers(platformVers)
	r.SetPluginVers(pluginVers)
	r.SetTimeStamp(timeStamp)
	return r
}

// Platform CMS名
func (r *PaymentMethodsRequest) Platform() (string, error) {
	return r.GetString("platform", false)
}

// SetPlatform CMS名を設定。空文字で削除
func (r *PaymentMethodsRequest) SetPlatform(v string) {
	r.SetString("platform", v)
}

// PlatformVers CMSのバージョン
func (r *PaymentMethodsRequest) PlatformVers() (string, error) {
	return r.GetString("platformVers", false)
}

// SetPlatformVers CMSのバージョンを設定。空文字で削除
func (r *PaymentMethodsRequest) SetPlatformVers(v string) {
	r.SetString("platformVers", v)
}

// PluginVers プラグインのバージョン
func (r *PaymentMethodsRequest) PluginVers() (string, error) {
	return r.GetString("pluginVers", false)
}

// SetPluginVers プラグインのバージョンを設定。空文字で削除
func (r *PaymentMethodsRequest) SetPluginVers(v string) {
	r.SetString("pluginVers", v)
}

// TimeStamp ミリ秒単位のタイムスタンプ
func (r *PaymentMethodsRequest) TimeStamp() (*int64, error) {
	return r.GetInt("timeStamp", false)
}

// SetTimeStamp タイムスタンプを設定
func (r *PaymentMethodsRequest) SetTimeStamp(v int64) {
	r.SetInt("timeStamp", &v)
}

// RequiredFields 必須フィールド
func (r *PaymentMethodsRequest) RequiredFields() []string {
	return []string{"platform", "platformVers", "pluginVers", "timeStamp"}
}

// AliasFieldName 署名時に加盟店エイリアスを設定するフィールド
func (r *PaymentMethodsRequest) AliasFieldName() string {
	return "apiKey"
}

// MacFieldName MACフィールド名
func (r *PaymentMethodsRequest) MacFieldName() string {
	return entity.DefaultMacFieldName
}

// MacFields MAC入力。apiKeyは常に設定上のエイリアスを使う
func (r *PaymentMethodsRequest) MacFields(cred entity.Credentials) ([]entity.MacField, error) {
	return collectMacFields(
		func() (entity.MacField, error) {
			return entity.MacField{Name: "apiKey", Value: entity.StringValue(cred.Alias())}, nil
		},
		func() (entity.MacField, error) { return macInt(&r.Base, "timeStamp", "timeStamp") },
	)
}

// PaymentMethodsResponse 利用可能な決済手段の一覧
type PaymentMethodsResponse struct {
	Response
}

// NewPaymentMethodsResponse フィールドストアからPaymentMethodsResponseを作成
func NewPaymentMethodsResponse(f *entity.Fields) (*PaymentMethodsResponse, error) {
	r := &PaymentMethodsResponse{Response: newResponse(f)}
	if _, err := r.AvailableMethods(); err != nil {
		return nil, err
	}
	return r, nil
}

// IDOperazione ゲートウェイが採番した操作ID
func (r *PaymentMethodsResponse) IDOperazione() (string, error) {
	return r.GetString("idOperazione", false)
}

// TimeStamp ミリ秒単位のタイムスタンプ
func (r *PaymentMethodsResponse) TimeStamp() (*int64, error) {
	return r.GetInt("timeStamp", false)
}

// URLLogoNexiSmall 小さいロゴのURL
func (r *PaymentMethodsResponse) URLLogoNexiSmall() (string, error) {
	return r.GetString("urlLogoNexiSmall", false)
}

// URLLogoNexiLarge 大きいロゴのURL
func (r *PaymentMethodsResponse) URLLogoNexiLarge() (string, error) {
	return r.GetString("urlLogoNexiLarge", false)
}

// AvailableMethods 利用可能な決済手段
func (r *PaymentMethodsResponse) AvailableMethods() ([]*PaymentMethod, error) {
	return entity.GetEntities(&r.Base, "availableMethods", NewPaymentMethod, false)
}

// RequiredFields 必須フィールド
func (r *PaymentMethodsResponse) RequiredFields() []string {
	return append(r.Response.RequiredFields(),
		"idOperazione", "timeStamp", "urlLogoNexiSmall", "urlLogoNexiLarge", "availableMethods")
}

// AliasFieldName 応答にはエイリアスを補完しない
func (r *PaymentMethodsResponse) AliasFieldName() string {
	return ""
}

// MacFieldName MACフィールド名
func (r *PaymentMethodsResponse) MacFieldName() string {
	return entity.DefaultMacFieldName
}

// MacFields MAC入力
func (r *PaymentMethodsResponse) MacFields(entity.Credentials) ([]entity.MacField, error) {
	return collectMacFields(
		func() (entity.MacField, error) { return macString(&r.Base, "esito") },
		func() (entity.MacField, error) { return macString(&r.Base, "idOperazione") },
		func() (entity.MacField, error) { return macInt(&r.Base, "timeStamp", "timeStamp") },
	)
}

// PaymentMethod 1つの決済手段
type PaymentMethod struct {
	entity.Base
}

// NewPaymentMethod フィールドストアからPaymentMethodを作成
func NewPaymentMethod(f *entity.Fields) *PaymentMethod {
	return &PaymentMethod{Base: entity.NewBase(f)}
}

// Code 決済手段の識別コード
func (m *PaymentMethod) Code() (string, error) {
	return m.GetString("code", false)
}

// Description 説明
func (m *PaymentMethod) Description() (string, error) {
	return m.GetString("description", false)
}

// Selectedcard 決済ページで事前選択するためのselectedcardの値
func (m *PaymentMethod) Selectedcard() (string, error) {
	return m.GetString("selectedcard", false)
}

// Image ロゴ画像のURL
func (m *PaymentMethod) Image() (string, error) {
	return m.GetString("image", false)
}

// Type 種別（MethodTypePaymentCircuit / MethodTypeAlternative）
func (m *PaymentMethod) Type() (string, error) {
	return m.GetString("type", false)
}

// Recurring 継続課金への対応（"Y" / "N"）
func (m *PaymentMethod) Recurring() (string, error) {
	return m.GetString("recurring", false)
}

// RequiredFields 必須フィールド
func (m *PaymentMethod) RequiredFields() []string {
	return []string{"code", "description", "selectedcard", "image", "type", "recurring"}
}
