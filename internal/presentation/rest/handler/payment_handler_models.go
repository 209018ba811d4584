package handler

import "time"

// StartPaymentRequest 決済開始リクエスト
type StartPaymentRequest struct {
	Amount       string `json:"amount"` // 小数表記（例: "50.00"）
	Currency     string `json:"currency"`
	Description  string `json:"description,omitempty"`
	Mail         string `json:"mail,omitempty"`
	Locale       string `json:"locale,omitempty"`
	SelectedCard string `json:"selected_card,omitempty"`
}

// FormField 決済ページへ送信するフォームの項目
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StartPaymentResponse 決済開始レスポンス
// ブラウザはSubmitURLへFieldsをPOSTする
type StartPaymentResponse struct {
	CodTrans  string      `json:"cod_trans"`
	Amount    string      `json:"amount"`
	Currency  string      `json:"currency"`
	Status    string      `json:"status"`
	SubmitURL string      `json:"submit_url"`
	Fields    []FormField `json:"fields"`
}

// PaymentResponse 決済の照会レスポンス
type PaymentResponse struct {
	CodTrans    string    `json:"cod_trans"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Outcome     string    `json:"outcome,omitempty"`
	AuthCode    string    `json:"auth_code,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaymentMethod 決済手段
type PaymentMethod struct {
	Code         string `json:"code"`
	Description  string `json:"description"`
	SelectedCard string `json:"selected_card"`
	Image        string `json:"image"`
	Type         string `json:"type"`
	Recurring    bool   `json:"recurring"`
}

// PaymentMethodsResponse 決済手段一覧レスポンス
type PaymentMethodsResponse struct {
	LogoSmall string          `json:"logo_small"`
	LogoLarge string          `json:"logo_large"`
	Methods   []PaymentMethod `json:"methods"`
}
