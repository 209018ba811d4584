package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	paymentapp "xpay-gateway/internal/application/payment"
	"xpay-gateway/internal/domain/xpay"
)

// PaymentService ハンドラーが利用する決済アプリケーションサービス
type PaymentService interface {
	StartPayment(ctx context.Context, req *paymentapp.StartPaymentRequest) (*paymentapp.StartPaymentResponse, error)
	GetPayment(ctx context.Context, codTrans string) (*paymentapp.PaymentResponse, error)
	ListPaymentMethods(ctx context.Context, platform, platformVers, pluginVers string) (*paymentapp.PaymentMethodsResponse, error)
	HandleNotification(ctx context.Context, params url.Values) (*paymentapp.NotificationResult, error)
	HandleCustomerReturn(ctx context.Context, params url.Values) (*paymentapp.ReturnResult, error)
	HandleCustomerCancel(ctx context.Context, params url.Values) (*paymentapp.CancelResult, error)
}

// PaymentHandler 決済関連ハンドラー
type PaymentHandler struct {
	paymentService PaymentService
}

// NewPaymentHandler 新しいPaymentHandlerを作成
func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// StartPayment 決済開始ハンドラー
// POST /api/v1/payments
func (h *PaymentHandler) StartPayment(c echo.Context) error {
	var reqBody StartPaymentRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	amount, err := xpay.ParseAmount(reqBody.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid amount format")
	}

	resp, err := h.paymentService.StartPayment(c.Request().Context(), &paymentapp.StartPaymentRequest{
		Amount:       amount,
		Currency:     strings.ToUpper(reqBody.Currency),
		Description:  reqBody.Description,
		Mail:         reqBody.Mail,
		Locale:       reqBody.Locale,
		SelectedCard: reqBody.SelectedCard,
	})
	if err != nil {
		return err
	}

	fields := make([]FormField, len(resp.Fields))
	for i, f := range resp.Fields {
		fields[i] = FormField{Name: f.Name, Value: f.Value}
	}

	return c.JSON(http.StatusCreated, StartPaymentResponse{
		CodTrans:  resp.CodTrans,
		Amount:    xpay.FormatAmount(resp.Amount),
		Currency:  resp.Currency,
		Status:    resp.Status,
		SubmitURL: resp.SubmitURL,
		Fields:    fields,
	})
}

// GetPayment 決済照会ハンドラー
// GET /api/v1/payments/:cod_trans
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	codTrans := c.Param("cod_trans")
	if codTrans == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "cod_trans is required")
	}

	resp, err := h.paymentService.GetPayment(c.Request().Context(), codTrans)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PaymentResponse{
		CodTrans:    resp.CodTrans,
		Amount:      resp.AmountDecimal,
		Currency:    resp.Currency,
		Description: resp.Description,
		Status:      resp.Status,
		Outcome:     resp.Outcome,
		AuthCode:    resp.AuthCode,
		Brand:       resp.Brand,
		Message:     resp.Message,
		CreatedAt:   resp.CreatedAt,
		UpdatedAt:   resp.UpdatedAt,
	})
}

// ListPaymentMethods 決済手段一覧ハンドラー
// GET /api/v1/payment-methods?platform=&platform_vers=&plugin_vers=
func (h *PaymentHandler) ListPaymentMethods(c echo.Context) error {
	resp, err := h.paymentService.ListPaymentMethods(
		c.Request().Context(),
		c.QueryParam("platform"),
		c.QueryParam("platform_vers"),
		c.QueryParam("plugin_vers"),
	)
	if err != nil {
		return err
	}

	methods := make([]PaymentMethod, len(resp.Methods))
	for i, m := range resp.Methods {
		methods[i] = PaymentMethod{
			Code:         m.Code,
			Description:  m.Description,
			SelectedCard: m.SelectedCard,
			Image:        m.Image,
			Type:         m.Type,
			Recurring:    m.Recurring,
		}
	}

	return c.JSON(http.StatusOK, PaymentMethodsResponse{
		LogoSmall: resp.LogoSmall,
		LogoLarge: resp.LogoLarge,
		Methods:   methods,
	})
}
