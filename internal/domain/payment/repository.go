package payment

import (
	"context"
)

// PaymentRepository Paymentリポジトリインターフェース
type PaymentRepository interface {
	// Save Paymentを保存
	Save(ctx context.Context, p *Payment) error

	// FindByCodTrans 取引コードでPaymentを取得
	FindByCodTrans(ctx context.Context, codTrans string) (*Payment, error)

	// FindByCodTransForUpdate 取引コードでPaymentを行ロック付きで取得（トランザクション内で使用）
	FindByCodTransForUpdate(ctx context.Context, codTrans string) (*Payment, error)

	// Update Paymentを更新
	Update(ctx context.Context, p *Payment) error
}

// TransactionManager トランザクション境界
// fnに渡されるコンテキストを使ったリポジトリ操作は同じトランザクションで実行される
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
