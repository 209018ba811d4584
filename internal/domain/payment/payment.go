package payment

import (
	"fmt"
	"strings"
	"time"

	"xpay-gateway/internal/domain/xpay"
)

// codTransの長さ制限
const (
	MinCodTransLength = 2
	MaxCodTransLength = 30
)

// Payment ホスト型決済ページで行う1件の決済
type Payment struct {
	codTrans    string
	amount      int64  // セント単位
	currency    string // 通貨コード（例: "EUR"）
	description string
	mail        string
	status      Status
	outcome     xpay.Outcome
	authCode    string
	brand       string
	message     string
	createdAt   time.Time
	updatedAt   time.Time
}

// Status 決済のステータス
type Status string

const (
	StatusPending   Status = "pending"   // 処理中
	StatusCompleted Status = "completed" // 完了
	StatusFailed    Status = "failed"    // 失敗
	StatusCancelled Status = "cancelled" // キャンセル
)

// NewStatus 文字列からStatusを作成
func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidPayment, s)
	}
}

// String 文字列表現を返す
func (s Status) String() string {
	return string(s)
}

// IsFinal 確定済みのステータスかどうかを返す
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// StatusFromOutcome ゲートウェイの処理結果をステータスに変換
func StatusFromOutcome(o xpay.Outcome) (Status, error) {
	switch o {
	case xpay.OutcomeOK:
		return StatusCompleted, nil
	case xpay.OutcomeKO, xpay.OutcomeError:
		return StatusFailed, nil
	case xpay.OutcomeCancel:
		return StatusCancelled, nil
	case xpay.OutcomePending:
		return StatusPending, nil
	default:
		return "", fmt.Errorf("%w: unknown outcome %q", ErrInvalidPayment, o)
	}
}

// NewPayment 新しいPaymentエンティティを作成
func NewPayment(codTrans string, amount int64, currency, description, mail string) (*Payment, error) {
	if err := validateCodTrans(codTrans); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidPayment)
	}
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrInvalidPayment)
	}

	now := time.Now()
	return &Payment{
		codTrans:    codTrans,
		amount:      amount,
		currency:    currency,
		description: description,
		mail:        mail,
		status:      StatusPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// MustNewPayment NewPaymentのパニック版（テスト用）
func MustNewPayment(codTrans string, amount int64, currency, description, mail string) *Payment {
	p, err := NewPayment(codTrans, amount, currency, description, mail)
	if err != nil {
		panic(err)
	}
	return p
}

// RestorePayment 永続化された状態からPaymentを復元
func RestorePayment(
	codTrans string,
	amount int64,
	currency string,
	description string,
	mail string,
	status Status,
	outcome xpay.Outcome,
	authCode string,
	brand string,
	message string,
	createdAt time.Time,
	updatedAt time.Time,
) *Payment {
	return &Payment{
		codTrans:    codTrans,
		amount:      amount,
		currency:    currency,
		description: description,
		mail:        mail,
		status:      status,
		outcome:     outcome,
		authCode:    authCode,
		brand:       brand,
		message:     message,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func validateCodTrans(codTrans string) error {
	if len(codTrans) < MinCodTransLength || len(codTrans) > MaxCodTransLength {
		return fmt.Errorf("%w: codTrans must be %d to %d characters", ErrInvalidPayment, MinCodTransLength, MaxCodTransLength)
	}
	if strings.ContainsAny(codTrans, "#'\"") {
		return fmt.Errorf("%w: codTrans contains a forbidden character", ErrInvalidPayment)
	}
	return nil
}

// CodTrans 取引コードを返す
func (p *Payment) CodTrans() string {
	return p.codTrans
}

// Amount セント単位の金額を返す
func (p *Payment) Amount() int64 {
	return p.amount
}

// Currency 通貨コードを返す
func (p *Payment) Currency() string {
	return p.currency
}

// Description 説明を返す
func (p *Payment) Description() string {
	return p.description
}

// Mail 購入者のメールアドレスを返す
func (p *Payment) Mail() string {
	return p.mail
}

// Status ステータスを返す
func (p *Payment) Status() Status {
	return p.status
}

// Outcome ゲートウェイの処理結果を返す。未通知の場合は空
func (p *Payment) Outcome() xpay.Outcome {
	return p.outcome
}

// AuthCode 承認番号を返す
func (p *Payment) AuthCode() string {
	return p.authCode
}

// Brand カードブランドを返す
func (p *Payment) Brand() string {
	return p.brand
}

// Message ゲートウェイのメッセージを返す
func (p *Payment) Message() string {
	return p.message
}

// CreatedAt 作成日時を返す
func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt 更新日時を返す
func (p *Payment) UpdatedAt() time.Time {
	return p.updatedAt
}

// IsPending 処理中状態かどうかを返す
func (p *Payment) IsPending() bool {
	return p.status == StatusPending
}

// Result ゲートウェイから通知された結果
type Result struct {
	Outcome  xpay.Outcome
	Amount   int64
	Currency string
	AuthCode string
	Brand    string
	Message  string
}

// ApplyResult 通知された結果を反映する
// 戻り値は状態が変化したかどうか。確定済みの決済に同じ結果が再通知された場合は何もしない
func (p *Payment) ApplyResult(r Result) (bool, error) {
	if r.Amount != p.amount || r.Currency != p.currency {
		return false, fmt.Errorf("%w: expected %d %s, got %d %s",
			ErrPaymentMismatch, p.amount, p.currency, r.Amount, r.Currency)
	}

	status, err := StatusFromOutcome(r.Outcome)
	if err != nil {
		return false, err
	}

	if p.status.IsFinal() {
		if p.outcome == r.Outcome {
			return false, nil
		}
		return false, fmt.Errorf("%w: %s is already %s", ErrPaymentAlreadyProcessed, p.codTrans, p.status)
	}

	p.status = status
	p.outcome = r.Outcome
	p.authCode = r.AuthCode
	p.brand = r.Brand
	p.message = r.Message
	p.updatedAt = time.Now()
	return true, nil
}
