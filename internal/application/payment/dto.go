package payment

import (
	"time"

	"xpay-gateway/internal/infrastructure/gateway"
)

// StartPaymentRequest 決済開始リクエスト
type StartPaymentRequest struct {
	Amount       int64 // セント単位
	Currency     string
	Description  string
	Mail         string
	Locale       string // 決済ページの表示言語（例: "it_IT"）
	SelectedCard string // 決済手段を指定する場合のselectedcard
}

// StartPaymentResponse 決済開始レスポンス
type StartPaymentResponse struct {
	CodTrans  string
	Amount    int64
	Currency  string
	Status    string
	SubmitURL string
	Fields    []gateway.FormField
}

// PaymentResponse 保存済みの決済
type PaymentResponse struct {
	CodTrans      string
	Amount        int64
	AmountDecimal string
	Currency      string
	Description   string
	Status        string
	Outcome       string
	AuthCode      string
	Brand         string
	Message       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NotificationResult 決済結果通知の処理結果
type NotificationResult struct {
	CodTrans string
	Status   string
	Outcome  string
	Changed  bool
}

// ReturnResult 顧客が決済ページから戻った時の結果
type ReturnResult struct {
	CodTrans      string
	Outcome       string
	Message       string
	Amount        int64
	AmountDecimal string
	Currency      string
	Status        string
}

// CancelResult 顧客がキャンセルした時の結果
// Statusは保存済みの状態で、キャンセルによって変化しない
type CancelResult struct {
	CodTrans string
	Outcome  string
	Status   string
}

// PaymentMethod 決済手段
type PaymentMethod struct {
	Code         string
	Description  string
	SelectedCard string
	Image        string
	Type         string
	Recurring    bool
}

// PaymentMethodsResponse 決済手段の一覧
type PaymentMethodsResponse struct {
	LogoSmall string
	LogoLarge string
	Methods   []PaymentMethod
}
