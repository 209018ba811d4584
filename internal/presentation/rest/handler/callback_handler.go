package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CallbackHandler ゲートウェイからの通知と顧客の戻りを受け付けるハンドラー
type CallbackHandler struct {
	paymentService PaymentService
}

// NewCallbackHandler 新しいCallbackHandlerを作成
func NewCallbackHandler(paymentService PaymentService) *CallbackHandler {
	return &CallbackHandler{
		paymentService: paymentService,
	}
}

// Notify サーバー間の決済結果通知
// POST /xpay/notify
// 処理に成功した場合のみ200を返す。それ以外はゲートウェイが再送する
func (h *CallbackHandler) Notify(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form body")
	}

	if _, err := h.paymentService.HandleNotification(c.Request().Context(), params); err != nil {
		return err
	}

	return c.String(http.StatusOK, "OK")
}

// Return 顧客が決済ページから戻った時の処理
// GET /xpay/return
func (h *CallbackHandler) Return(c echo.Context) error {
	resp, err := h.paymentService.HandleCustomerReturn(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ReturnResponse{
		CodTrans: resp.CodTrans,
		Outcome:  resp.Outcome,
		Status:   resp.Status,
		Amount:   resp.AmountDecimal,
		Currency: resp.Currency,
		Message:  resp.Message,
	})
}

// Cancel 顧客が決済ページでキャンセルした時の処理
// GET /xpay/cancel
func (h *CallbackHandler) Cancel(c echo.Context) error {
	resp, err := h.paymentService.HandleCustomerCancel(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CancelResponse{
		CodTrans: resp.CodTrans,
		Outcome:  resp.Outcome,
		Status:   resp.Status,
	})
}

