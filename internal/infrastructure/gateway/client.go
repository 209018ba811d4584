package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"xpay-gateway/internal/domain/entity"
	"xpay-gateway/internal/domain/xpay"
	"xpay-gateway/internal/infrastructure/observability/otel"
	"xpay-gateway/internal/infrastructure/transport"
)

// ゲートウェイのパス
const (
	pathProfileInfo     = "/ecomm/api/profileInfo"
	pathSimplePaySubmit = "/ecomm/ecomm/DispatcherServlet"
)

// Configuration ゲートウェイの接続設定
type Configuration interface {
	entity.Credentials
	// BaseURL ゲートウェイのベースURL
	BaseURL() string
}

// FormField ブラウザから送信するフォームの1項目
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SubmitForm 決済ページへ自動送信するフォーム
type SubmitForm struct {
	URL    string      `json:"url"`
	Fields []FormField `json:"fields"`
}

// Values フォーム項目をurl.Valuesに変換
func (f *SubmitForm) Values() url.Values {
	values := make(url.Values, len(f.Fields))
	for _, field := range f.Fields {
		values.Set(field.Name, field.Value)
	}
	return values
}

// Client 決済ゲートウェイのクライアント
// 呼び出し間で状態を持たない
type Client struct {
	config    Configuration
	transport transport.Transport
	logger    *otel.Logger
	metrics   *otel.Metrics
	tracer    trace.Tracer
}

// NewClient 新しいClientを作成
func NewClient(config Configuration, tr transport.Transport, logger *otel.Logger, metrics *otel.Metrics) *Client {
	return &Client{
		config:    config,
		transport: tr,
		logger:    logger,
		metrics:   metrics,
		tracer:    otel.Tracer("xpay-gateway/gateway"),
	}
}

// ListSupportedPaymentMethods 加盟店で利用可能な決済手段の一覧を取得
func (c *Client) ListSupportedPaymentMethods(ctx context.Context, req *xpay.PaymentMethodsRequest) (*xpay.PaymentMethodsResponse, error) {
	const operation = "ListSupportedPaymentMethods"
	ctx, span := c.startSpan(ctx, operation)
	defer span.End()
	start := time.Now()

	resp, err := c.listSupportedPaymentMethods(ctx, req)
	c.finish(ctx, span, operation, start, err)
	return resp, err
}

func (c *Client) listSupportedPaymentMethods(ctx context.Context, req *xpay.PaymentMethodsRequest) (*xpay.PaymentMethodsResponse, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	data, err := c.invoke(ctx, http.MethodPost, pathProfileInfo, req)
	if err != nil {
		return nil, err
	}

	resp, err := xpay.NewPaymentMethodsResponse(data)
	if err != nil {
		return nil, err
	}
	if err := c.validate(ctx, resp, "profileInfo"); err != nil {
		return nil, err
	}
	return resp, nil
}

// Sign エンティティに署名したフィールドストアを返す
func (c *Client) Sign(e entity.Signable) (*entity.Fields, error) {
	return entity.Sign(e, c.config)
}

// SimplePaySubmitURL 決済ページへの送信先URL
func (c *Client) SimplePaySubmitURL() string {
	return c.buildURL(pathSimplePaySubmit)
}

// SimplePayForm 必須項目を確認して署名し、決済ページへ送信するフォームを返す
func (c *Client) SimplePayForm(ctx context.Context, req *xpay.SimplePayRequest) (*SubmitForm, error) {
	const operation = "SimplePayForm"
	ctx, span := c.startSpan(ctx, operation)
	defer span.End()
	start := time.Now()

	form, err := c.simplePayForm(req)
	c.finish(ctx, span, operation, start, err)
	return form, err
}

func (c *Client) simplePayForm(req *xpay.SimplePayRequest) (*SubmitForm, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := entity.CheckRequiredFields(req); err != nil {
		return nil, err
	}
	signed, err := c.Sign(req)
	if err != nil {
		return nil, err
	}

	form := &SubmitForm{
		URL:    c.SimplePaySubmitURL(),
		Fields: make([]FormField, 0, signed.Len()),
	}
	signed.Range(func(name string, v entity.Value) bool {
		form.Fields = append(form.Fields, FormField{Name: name, Value: v.String()})
		return true
	})
	return form, nil
}

// ParseCallback 決済結果のパラメータを検証してCallbackDataを返す
// 顧客のリダイレクトとサーバ間通知のどちらにも使う
func (c *Client) ParseCallback(ctx context.Context, params url.Values) (*xpay.CallbackData, error) {
	const operation = "ParseCallback"
	ctx, span := c.startSpan(ctx, operation)
	defer span.End()
	start := time.Now()

	data := xpay.CallbackDataFromParams(params)
	err := c.validate(ctx, data, "callback")
	c.finish(ctx, span, operation, start, err)
	if err != nil {
		return nil, err
	}

	esito, _ := data.Esito()
	if c.metrics != nil {
		c.metrics.RecordCallback(ctx, "result", esito.String())
	}
	return data, nil
}

// ParseCustomerCancel 顧客のキャンセル時のパラメータを検証してCustomerCancelを返す
func (c *Client) ParseCustomerCancel(ctx context.Context, params url.Values) (*xpay.CustomerCancel, error) {
	const operation = "ParseCustomerCancel"
	ctx, span := c.startSpan(ctx, operation)
	defer span.End()
	start := time.Now()

	data := xpay.CustomerCancelFromParams(params)
	err := entity.CheckRequiredFields(data)
	c.finish(ctx, span, operation, start, err)
	if err != nil {
		return nil, err
	}

	esito, _ := data.Esito()
	if c.metrics != nil {
		c.metrics.RecordCallback(ctx, "cancel", esito.String())
	}
	return data, nil
}

// invoke リクエストを送信し、応答をフィールドストアとして返す
// reqがnilの場合は本文を送らない
func (c *Client) invoke(ctx context.Context, method, path string, req entity.Entity) (*entity.Fields, error) {
	target := c.buildURL(path)
	headers := map[string]string{}
	var body string

	if req != nil {
		if err := entity.CheckRequiredFields(req); err != nil {
			return nil, err
		}
		fields := req.Fields()
		if signable, ok := req.(entity.Signable); ok {
			signed, err := c.Sign(signable)
			if err != nil {
				return nil, err
			}
			fields = signed
		}
		encoded, err := entity.Encode(fields)
		if err != nil {
			return nil, err
		}
		body = string(encoded)
		headers["Content-Type"] = "application/json"
	}

	c.logger.Debug(ctx, "Calling payment gateway", map[string]interface{}{
		"method": method,
		"url":    target,
	})

	resp, err := c.transport.Invoke(ctx, method, target, headers, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn(ctx, "Payment gateway returned an unexpected status", map[string]interface{}{
			"url":    target,
			"status": resp.StatusCode,
		})
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	data, err := entity.DecodeObject([]byte(resp.Body))
	if err != nil {
		c.logger.Warn(ctx, "Failed to decode payment gateway response", map[string]interface{}{
			"url":   target,
			"error": err.Error(),
		})
		return nil, &InvalidJSONError{Raw: resp.Body, Reason: err}
	}

	if errResp, ok := asErrorResponse(data); ok {
		respErr := newResponseError(errResp)
		c.logger.Warn(ctx, "Payment gateway reported an error", map[string]interface{}{
			"url":     target,
			"code":    respErr.Code,
			"message": respErr.Message,
		})
		return nil, respErr
	}
	return data, nil
}

// asErrorResponse esitoがKOでerroreがオブジェクトの場合にErrorResponseを返す
func asErrorResponse(data *entity.Fields) (*xpay.ErrorResponse, bool) {
	esito, _ := data.Get("esito")
	errore, _ := data.Get("errore")
	if esito.Kind() != entity.KindString || xpay.Outcome(esito.String()) != xpay.OutcomeKO {
		return nil, false
	}
	if errore.Kind() != entity.KindObject {
		return nil, false
	}
	resp, err := xpay.NewErrorResponse(data)
	if err != nil {
		return nil, false
	}
	return resp, true
}

// validate 必須項目を確認し、署名付きのエンティティはMACを検証する
func (c *Client) validate(ctx context.Context, e entity.Entity, source string) error {
	if err := entity.CheckRequiredFields(e); err != nil {
		return err
	}
	signable, ok := e.(entity.Signable)
	if !ok {
		return nil
	}
	if err := entity.CheckMac(signable, c.config); err != nil {
		if errors.Is(err, entity.ErrMacMismatch) {
			c.logger.Warn(ctx, "MAC mismatch", map[string]interface{}{
				"source": source,
			})
			if c.metrics != nil {
				c.metrics.RecordMacMismatch(ctx, source)
			}
		}
		return err
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	return strings.TrimRight(c.config.BaseURL(), "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "gateway.Client."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("xpay.operation", operation)),
	)
}

func (c *Client) finish(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	kind := ErrorKind(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error(ctx, "Payment gateway operation failed", err, map[string]interface{}{
			"operation": operation,
			"kind":      kind,
		})
	} else {
		c.logger.Debug(ctx, "Payment gateway operation completed", map[string]interface{}{
			"operation": operation,
		})
	}
	if c.metrics != nil {
		c.metrics.RecordGatewayCall(ctx, operation, kind, time.Since(start).Seconds())
	}
}
