package gateway

import (
	"errors"
	"fmt"

	"xpay-gateway/internal/domain/entity"
	"xpay-gateway/internal/domain/xpay"
	"xpay-gateway/internal/infrastructure/transport"
)

var (
	// ErrHTTPStatus ステータスコードが200以外のエラー
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	// ErrInvalidJSON 応答がJSONオブジェクトとして解釈できないエラー
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrErrorResponse ゲートウェイがKOとエラー詳細を返したエラー
	ErrErrorResponse = errors.New("gateway error response")
	// ErrNilRequest リクエストがnil
	ErrNilRequest = errors.New("request is nil")
)

// unknownErrorMessage エラー詳細にメッセージが無い場合の既定値
const unknownErrorMessage = "Unknown error"

// HTTPError ステータスコードが200以外
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected HTTP status code %d", e.StatusCode)
}

// Is errors.Isでの比較
func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// InvalidJSONError 応答本文のデコード失敗
type InvalidJSONError struct {
	Raw    string
	Reason error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("failed to decode the response: %v", e.Reason)
}

// Unwrap 原因のエラーを返す
func (e *InvalidJSONError) Unwrap() error {
	return e.Reason
}

// Is errors.Isでの比較
func (e *InvalidJSONError) Is(target error) bool {
	return target == ErrInvalidJSON
}

// ResponseError ゲートウェイが返したエラー応答
// Responseは元の応答で、MACは検証していない
type ResponseError struct {
	Code     int64
	Message  string
	Response *xpay.ErrorResponse
}

func newResponseError(resp *xpay.ErrorResponse) *ResponseError {
	msg := resp.Message()
	if msg == "" {
		msg = unknownErrorMessage
	}
	return &ResponseError{
		Code:     resp.Code(),
		Message:  msg,
		Response: resp,
	}
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("gateway error %d: %s", e.Code, e.Message)
}

// Is errors.Isでの比較
func (e *ResponseError) Is(target error) bool {
	return target == ErrErrorResponse
}

// エラー種別
const (
	KindNone           = "ok"
	KindMissingField   = "missing_field"
	KindWrongFieldType = "wrong_field_type"
	KindMacMismatch    = "mac_mismatch"
	KindHTTPError      = "http_error"
	KindRequestFailed  = "http_request_failed"
	KindInvalidJSON    = "invalid_json"
	KindErrorResponse  = "error_response"
	KindNoTransport    = "no_transport"
	KindNilRequest     = "nil_request"
	KindUnknown        = "unknown"
)

// ErrorKind エラーを種別名に分類する（ログやメトリクスの属性用）
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, entity.ErrMissingField):
		return KindMissingField
	case errors.Is(err, entity.ErrWrongFieldType):
		return KindWrongFieldType
	case errors.Is(err, entity.ErrMacMismatch):
		return KindMacMismatch
	case errors.Is(err, ErrHTTPStatus):
		return KindHTTPError
	case errors.Is(err, transport.ErrRequestFailed):
		return KindRequestFailed
	case errors.Is(err, ErrInvalidJSON):
		return KindInvalidJSON
	case errors.Is(err, ErrErrorResponse):
		return KindErrorResponse
	case errors.Is(err, transport.ErrNoTransport):
		return KindNoTransport
	case errors.Is(err, ErrNilRequest):
		return KindNilRequest
	default:
		return KindUnknown
	}
}
