package payment

import "errors"

var (
	// ErrPaymentNotFound Paymentが見つからないエラー
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentAlreadyProcessed 既に別の結果で確定済みエラー
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
	// ErrInvalidPayment 無効なPaymentエラー
	ErrInvalidPayment = errors.New("invalid payment")
	// ErrPaymentMismatch 通知内容が保存済みの決済と一致しないエラー
	ErrPaymentMismatch = errors.New("payment does not match the notification")
)
