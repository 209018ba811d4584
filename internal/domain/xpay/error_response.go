package xpay

import (
	"xpay-gateway/internal/domain/entity"
)

// ErrorResponse esitoがKOでerroreを含む応答
type ErrorResponse struct {
	Response
}

// NewErrorResponse フィールドストアからErrorResponseを作成
func NewErrorResponse(f *entity.Fields) (*ErrorResponse, error) {
	r := &ErrorResponse{Response: newResponse(f)}
	if _, err := r.Errore(); err != nil {
		return nil, err
	}
	return r, nil
}

// IDOperazione ゲートウェイが採番した操作ID
func (r *ErrorResponse) IDOperazione() (string, error) {
	return r.GetString("idOperazione", false)
}

// TimeStamp ミリ秒単位のタイムスタンプ
func (r *ErrorResponse) TimeStamp() (*int64, error) {
	return r.GetInt("timeStamp", false)
}

// Errore エラー詳細
func (r *ErrorResponse) Errore() (*ErrorDetails, error) {
	return entity.GetEntity(&r.Base, "errore", NewErrorDetails, false)
}

// RequiredFields 必須フィールド
func (r *ErrorResponse) RequiredFields() []string {
	return append(r.Response.RequiredFields(), "idOperazione", "timeStamp", "errore")
}

// AliasFieldName 応答にはエイリアスを補完しない
func (r *ErrorResponse) AliasFieldName() string {
	return ""
}

// MacFieldName MACフィールド名
func (r *ErrorResponse) MacFieldName() string {
	return entity.DefaultMacFieldName
}

// MacFields MAC入力。タイムスタンプのキーは小文字の "timestamp"
func (r *ErrorResponse) MacFields(entity.Credentials) ([]entity.MacField, error) {
	return collectMacFields(
		func() (entity.MacField, error) { return macString(&r.Base, "esito") },
		func() (entity.MacField, error) { return macString(&r.Base, "idOperazione") },
		func() (entity.MacField, error) { return macInt(&r.Base, "timeStamp", "timestamp") },
	)
}

// Code エラーコード。詳細が無い場合は0
func (r *ErrorResponse) Code() int64 {
	details, err := r.Errore()
	if err != nil || details == nil {
		return 0
	}
	code, err := details.Codice()
	if err != nil || code == nil {
		return 0
	}
	return *code
}

// Message エラーメッセージ。詳細が無い場合は空文字
func (r *ErrorResponse) Message() string {
	details, err := r.Errore()
	if err != nil || details == nil {
		return ""
	}
	msg, _ := details.Messaggio()
	return msg
}

// ErrorDetails エラー詳細（codice + messaggio）
type ErrorDetails struct {
	entity.Base
}

// NewErrorDetails フィールドストアからErrorDetailsを作成
func NewErrorDetails(f *entity.Fields) *ErrorDetails {
	return &ErrorDetails{Base: entity.NewBase(f)}
}

// Codice エラーコード
func (d *ErrorDetails) Codice() (*int64, error) {
	return d.GetInt("codice", false)
}

// Messaggio エラーメッセージ
func (d *ErrorDetails) Messaggio() (string, error) {
	return d.GetString("messaggio", false)
}

// RequiredFields 必須フィールド
func (d *ErrorDetails) RequiredFields() []string {
	return []string{"codice", "messaggio"}
}
