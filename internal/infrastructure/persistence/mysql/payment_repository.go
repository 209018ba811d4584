package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"xpay-gateway/internal/domain/payment"
	"xpay-gateway/internal/domain/xpay"
)

const paymentColumns = `cod_trans, amount, currency, description, mail, status, outcome,
			auth_code, brand, message, created_at, updated_at`

// PaymentRepository MySQL実装のPaymentRepository
type PaymentRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewPaymentRepository 新しいPaymentRepositoryを作成
func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{
		db:     db,
		tracer: otel.Tracer("payment-repository"),
	}
}

// Save Paymentを保存（既存の場合は結果を上書き）
func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	ctx, span := r.tracer.Start(ctx, "PaymentRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.cod_trans", p.CodTrans()),
		attribute.Int64("db.amount", p.Amount()),
		attribute.String("db.status", p.Status().String()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "payments"),
	)

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			outcome = VALUES(outcome),
			auth_code = VALUES(auth_code),
			brand = VALUES(brand),
			message = VALUES(message),
			updated_at = VALUES(updated_at)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		p.CodTrans(),
		p.Amount(),
		p.Currency(),
		p.Description(),
		p.Mail(),
		p.Status().String(),
		p.Outcome().String(),
		p.AuthCode(),
		p.Brand(),
		p.Message(),
		p.CreatedAt(),
		p.UpdatedAt(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save payment: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "payment saved")
	return nil
}

// FindByCodTrans 取引コードでPaymentを取得
func (r *PaymentRepository) FindByCodTrans(ctx context.Context, codTrans string) (*payment.Payment, error) {
	ctx, span := r.tracer.Start(ctx, "PaymentRepository.FindByCodTrans")
	defer span.End()

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE cod_trans = ?`
	return r.find(ctx, span, query, codTrans)
}

// FindByCodTransForUpdate 取引コードでPaymentを行ロック付きで取得（トランザクション内で使用）
func (r *PaymentRepository) FindByCodTransForUpdate(ctx context.Context, codTrans string) (*payment.Payment, error) {
	ctx, span := r.tracer.Start(ctx, "PaymentRepository.FindByCodTransForUpdate")
	defer span.End()

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE cod_trans = ? FOR UPDATE`
	return r.find(ctx, span, query, codTrans)
}

func (r *PaymentRepository) find(ctx context.Context, span trace.Span, query, codTrans string) (*payment.Payment, error) {
	span.SetAttributes(
		attribute.String("db.cod_trans", codTrans),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "payments"),
	)

	var (
		dbCodTrans  string
		amount      int64
		currency    string
		description string
		mail        string
		status      string
		outcome     string
		authCode    string
		brand       string
		message     string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := r.db.conn(ctx).QueryRowContext(ctx, query, codTrans).Scan(
		&dbCodTrans,
		&amount,
		&currency,
		&description,
		&mail,
		&status,
		&outcome,
		&authCode,
		&brand,
		&message,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "payment not found")
		return nil, payment.ErrPaymentNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}

	st, err := payment.NewStatus(status)
	if err != nil {
		return nil, fmt.Errorf("invalid payment status: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "payment found")
	return payment.RestorePayment(
		dbCodTrans,
		amount,
		currency,
		description,
		mail,
		st,
		xpay.Outcome(outcome),
		authCode,
		brand,
		message,
		createdAt,
		updatedAt,
	), nil
}

// Update Paymentの状態と結果を更新
func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	ctx, span := r.tracer.Start(ctx, "PaymentRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.cod_trans", p.CodTrans()),
		attribute.String("db.status", p.Status().String()),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "payments"),
	)

	query := `
		UPDATE payments
		SET status = ?, outcome = ?, auth_code = ?, brand = ?, message = ?, updated_at = ?
		WHERE cod_trans = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		p.Status().String(),
		p.Outcome().String(),
		p.AuthCode(),
		p.Brand(),
		p.Message(),
		p.UpdatedAt(),
		p.CodTrans(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to update payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Error, "payment not found")
		return payment.ErrPaymentNotFound
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", rowsAffected))
	span.SetStatus(otelcodes.Ok, "payment updated")
	return nil
}
