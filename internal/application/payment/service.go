package payment

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"xpay-gateway/internal/domain/dictionary"
	"xpay-gateway/internal/domain/payment"
	"xpay-gateway/internal/domain/xpay"
	"xpay-gateway/internal/infrastructure/gateway"
	otelinfra "xpay-gateway/internal/infrastructure/observability/otel"
)

// Gateway 決済ゲートウェイの操作
type Gateway interface {
	ListSupportedPaymentMethods(ctx context.Context, req *xpay.PaymentMethodsRequest) (*xpay.PaymentMethodsResponse, error)
	SimplePayForm(ctx context.Context, req *xpay.SimplePayRequest) (*gateway.SubmitForm, error)
	ParseCallback(ctx context.Context, params url.Values) (*xpay.CallbackData, error)
	ParseCustomerCancel(ctx context.Context, params url.Values) (*xpay.CustomerCancel, error)
}

// URLs 決済ページに渡す戻り先URL
type URLs struct {
	Return string // 決済完了後の戻り先
	Back   string // キャンセル時の戻り先
	Notify string // サーバ間通知の送信先（空の場合は送らない）
}

// PaymentApplicationService 決済アプリケーションサービス
type PaymentApplicationService struct {
	paymentRepo payment.PaymentRepository
	txManager   payment.TransactionManager
	gateway     Gateway
	urls        URLs
	logger      *otelinfra.Logger
	metrics     *otelinfra.Metrics
	tracer      trace.Tracer
	newCodTrans func() string
	now         func() time.Time
}

// NewPaymentApplicationService 新しいPaymentApplicationServiceを作成
func NewPaymentApplicationService(
	paymentRepo payment.PaymentRepository,
	txManager payment.TransactionManager,
	gw Gateway,
	urls URLs,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *PaymentApplicationService {
	return &PaymentApplicationService{
		paymentRepo: paymentRepo,
		txManager:   txManager,
		gateway:     gw,
		urls:        urls,
		logger:      logger,
		metrics:     metrics,
		tracer:      otel.Tracer("payment-service"),
		newCodTrans: func() string { return ulid.Make().String() },
		now:         time.Now,
	}
}

// StartPayment 決済を開始し、決済ページへ送信するフォームを返す
func (s *PaymentApplicationService) StartPayment(ctx context.Context, req *StartPaymentRequest) (*StartPaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.StartPayment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("amount", req.Amount),
		attribute.String("currency", req.Currency),
	)

	currency, err := dictionary.NewCurrency(req.Currency)
	if err != nil {
		err = fmt.Errorf("%w: %v", payment.ErrInvalidPayment, err)
		recordSpanError(span, err)
		return nil, err
	}

	codTrans := s.newCodTrans()
	p, err := payment.NewPayment(codTrans, req.Amount, currency.String(), req.Description, req.Mail)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("cod_trans", codTrans))

	simplePay := xpay.NewSimplePayRequest()
	simplePay.SetImporto(p.Amount())
	simplePay.SetDivisa(p.Currency())
	simplePay.SetCodTrans(codTrans)
	simplePay.SetURL(s.urls.Return)
	simplePay.SetURLBack(s.urls.Back)
	simplePay.SetURLPost(s.urls.Notify)
	simplePay.SetMail(p.Mail())
	simplePay.SetDescrizione(p.Description())
	simplePay.SetSelectedcard(req.SelectedCard)
	if req.Locale != "" {
		if lang, ok := dictionary.LanguageFromLocale(req.Locale); ok {
			simplePay.SetLanguageID(lang.String())
		}
	}

	form, err := s.gateway.SimplePayForm(ctx, simplePay)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("failed to build the payment form: %w", err)
	}

	if err := s.paymentRepo.Save(ctx, p); err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	s.logger.Info(ctx, "Payment started", map[string]interface{}{
		"cod_trans": codTrans,
		"amount":    p.Amount(),
		"currency":  p.Currency(),
	})
	span.SetStatus(otelcodes.Ok, "payment started")

	return &StartPaymentResponse{
		CodTrans:  codTrans,
		Amount:    p.Amount(),
		Currency:  p.Currency(),
		Status:    p.Status().String(),
		SubmitURL: form.URL,
		Fields:    form.Fields,
	}, nil
}

// HandleNotification サーバ間通知を検証し、決済の結果を保存する
// 確定済みの決済に同じ結果が再通知された場合は何もしない
func (s *PaymentApplicationService) HandleNotification(ctx context.Context, params url.Values) (*NotificationResult, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.HandleNotification")
	defer span.End()

	data, err := s.gateway.ParseCallback(ctx, params)
	if err != nil {
		recordSpanError(span, err)
		s.logger.Warn(ctx, "Rejected payment notification", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	p, changed, err := s.applyCallback(ctx, data)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("cod_trans", p.CodTrans()),
		attribute.String("status", p.Status().String()),
		attribute.Bool("changed", changed),
	)
	span.SetStatus(otelcodes.Ok, "notification handled")

	return &NotificationResult{
		CodTrans: p.CodTrans(),
		Status:   p.Status().String(),
		Outcome:  p.Outcome().String(),
		Changed:  changed,
	}, nil
}

// HandleCustomerReturn 決済ページから戻った顧客のパラメータを検証し、結果を返す
func (s *PaymentApplicationService) HandleCustomerReturn(ctx context.Context, params url.Values) (*ReturnResult, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.HandleCustomerReturn")
	defer span.End()

	data, err := s.gateway.ParseCallback(ctx, params)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	p, _, err := s.applyCallback(ctx, data)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	message, _ := data.Messaggio()
	span.SetStatus(otelcodes.Ok, "customer returned")
	return &ReturnResult{
		CodTrans:      p.CodTrans(),
		Outcome:       p.Outcome().String(),
		Message:       message,
		Amount:        p.Amount(),
		AmountDecimal: xpay.FormatAmount(p.Amount()),
		Currency:      p.Currency(),
		Status:        p.Status().String(),
	}, nil
}

// HandleCustomerCancel 決済ページでキャンセルした顧客のパラメータを確認し、保存済みの状態を返す
// キャンセルのパラメータにはMACが無いため、決済の状態は変更しない。状態はサーバ間通知で確定する
func (s *PaymentApplicationService) HandleCustomerCancel(ctx context.Context, params url.Values) (*CancelResult, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.HandleCustomerCancel")
	defer span.End()

	data, err := s.gateway.ParseCustomerCancel(ctx, params)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	codTrans, err1 := data.CodTrans()
	amount, err2 := data.Importo()
	currency, err3 := data.Divisa()
	esito, err4 := data.Esito()
	if err := firstError(err1, err2, err3, err4); err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	p, err := s.paymentRepo.FindByCodTrans(ctx, codTrans)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	if amount == nil || *amount != p.Amount() || (currency != "" && currency != p.Currency()) {
		err := fmt.Errorf("%w: %s", payment.ErrPaymentMismatch, codTrans)
		recordSpanError(span, err)
		return nil, err
	}

	s.logger.Info(ctx, "Customer left the payment page", map[string]interface{}{
		"cod_trans": codTrans,
		"outcome":   esito.String(),
		"status":    p.Status().String(),
	})
	span.SetStatus(otelcodes.Ok, "customer cancelled")

	return &CancelResult{
		CodTrans: codTrans,
		Outcome:  esito.String(),
		Status:   p.Status().String(),
	}, nil
}

// GetPayment 保存済みの決済を取得
func (s *PaymentApplicationService) GetPayment(ctx context.Context, codTrans string) (*PaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.GetPayment")
	defer span.End()

	span.SetAttributes(attribute.String("cod_trans", codTrans))

	p, err := s.paymentRepo.FindByCodTrans(ctx, codTrans)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	return &PaymentResponse{
		CodTrans:      p.CodTrans(),
		Amount:        p.Amount(),
		AmountDecimal: xpay.FormatAmount(p.Amount()),
		Currency:      p.Currency(),
		Description:   p.Description(),
		Status:        p.Status().String(),
		Outcome:       p.Outcome().String(),
		AuthCode:      p.AuthCode(),
		Brand:         p.Brand(),
		Message:       p.Message(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}, nil
}

// ListPaymentMethods 加盟店で利用可能な決済手段を取得
func (s *PaymentApplicationService) ListPaymentMethods(ctx context.Context, platform, platformVers, pluginVers string) (*PaymentMethodsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.ListPaymentMethods")
	defer span.End()

	req := xpay.NewPaymentMethodsRequest(platform, platformVers, pluginVers, s.now().UnixMilli())
	resp, err := s.gateway.ListSupportedPaymentMethods(ctx, req)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	small, err1 := resp.URLLogoNexiSmall()
	large, err2 := resp.URLLogoNexiLarge()
	methods, err3 := resp.AvailableMethods()
	if err := firstError(err1, err2, err3); err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	result := &PaymentMethodsResponse{
		LogoSmall: small,
		LogoLarge: large,
		Methods:   make([]PaymentMethod, 0, len(methods)),
	}
	for _, m := range methods {
		code, _ := m.Code()
		description, _ := m.Description()
		selectedCard, _ := m.Selectedcard()
		image, _ := m.Image()
		methodType, _ := m.Type()
		recurring, _ := m.Recurring()
		result.Methods = append(result.Methods, PaymentMethod{
			Code:         code,
			Description:  description,
			SelectedCard: selectedCard,
			Image:        image,
			Type:         methodType,
			Recurring:    recurring == "Y",
		})
	}

	span.SetAttributes(attribute.Int("methods", len(result.Methods)))
	span.SetStatus(otelcodes.Ok, "payment methods listed")
	return result, nil
}

// applyCallback 検証済みの決済結果をトランザクション内で反映する
func (s *PaymentApplicationService) applyCallback(ctx context.Context, data *xpay.CallbackData) (*payment.Payment, bool, error) {
	codTrans, result, err := resultFromCallback(data)
	if err != nil {
		return nil, false, err
	}

	var p *payment.Payment
	var changed bool
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.paymentRepo.FindByCodTransForUpdate(ctx, codTrans)
		if err != nil {
			return err
		}
		changed, err = p.ApplyResult(result)
		if err != nil || !changed {
			return err
		}
		return s.paymentRepo.Update(ctx, p)
	})
	if err != nil {
		s.logger.Error(ctx, "Failed to apply payment result", err, map[string]interface{}{
			"cod_trans": codTrans,
			"outcome":   result.Outcome.String(),
		})
		return nil, false, err
	}

	if changed {
		s.recordOutcome(ctx, p)
		s.logger.Info(ctx, "Payment result applied", map[string]interface{}{
			"cod_trans": codTrans,
			"status":    p.Status().String(),
			"outcome":   p.Outcome().String(),
		})
	}
	return p, changed, nil
}

func resultFromCallback(data *xpay.CallbackData) (string, payment.Result, error) {
	codTrans, err1 := data.CodTrans()
	esito, err2 := data.Esito()
	amount, err3 := data.Importo()
	currency, err4 := data.Divisa()
	authCode, err5 := data.CodAut()
	brand, err6 := data.Brand()
	message, err7 := data.Messaggio()
	if err := firstError(err1, err2, err3, err4, err5, err6, err7); err != nil {
		return "", payment.Result{}, err
	}
	return codTrans, payment.Result{
		Outcome:  esito,
		Amount:   amount,
		Currency: currency,
		AuthCode: authCode,
		Brand:    brand,
		Message:  message,
	}, nil
}

func (s *PaymentApplicationService) recordOutcome(ctx context.Context, p *payment.Payment) {
	if s.metrics != nil {
		s.metrics.RecordPaymentOutcome(ctx, p.Status().String(), p.Currency())
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
}

// firstError 最初のnilでないエラーを返す
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
