package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	paymentapp "xpay-gateway/internal/application/payment"
	"xpay-gateway/internal/domain/payment"
	"xpay-gateway/internal/infrastructure/gateway"
)

func TestPaymentHandler_StartPayment(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockPaymentService)
		expectedStatus int
		check          func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "正常系: 決済開始",
			body: `{"amount":"50.00","currency":"eur","description":"Order 1","locale":"it_IT"}`,
			setupMock: func(m *MockPaymentService) {
				m.On("StartPayment", mock.Anything, &paymentapp.StartPaymentRequest{
					Amount:      5000,
					Currency:    "EUR",
					Description: "Order 1",
					Locale:      "it_IT",
				}).Return(&paymentapp.StartPaymentResponse{
					CodTrans:  "T1",
					Amount:    5000,
					Currency:  "EUR",
					Status:    "pending",
					SubmitURL: "https://int-ecommerce.nexi.it/ecomm/ecomm/DispatcherServlet",
					Fields: []gateway.FormField{
						{Name: "alias", Value: "A"},
						{Name: "mac", Value: "abc"},
					},
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp StartPaymentResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "T1", resp.CodTrans)
				assert.Equal(t, "50.00", resp.Amount)
				assert.Equal(t, "pending", resp.Status)
				assert.Equal(t, []FormField{{Name: "alias", Value: "A"}, {Name: "mac", Value: "abc"}}, resp.Fields)
			},
		},
		{
			name:           "異常系: 無効なリクエストボディ",
			body:           `{`,
			setupMock:      func(m *MockPaymentService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: 無効な金額フォーマット",
			body:           `{"amount":"abc","currency":"EUR"}`,
			setupMock:      func(m *MockPaymentService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "異常系: 不正な決済",
			body: `{"amount":"0","currency":"EUR"}`,
			setupMock: func(m *MockPaymentService) {
				m.On("StartPayment", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: amount must be positive", payment.ErrInvalidPayment))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			mockService := new(MockPaymentService)
			tt.setupMock(mockService)
			h := NewPaymentHandler(mockService)
			e.POST("/api/v1/payments", h.StartPayment)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.check != nil {
				tt.check(t, rec)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestPaymentHandler_GetPayment(t *testing.T) {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		setupMock      func(*MockPaymentService)
		expectedStatus int
	}{
		{
			name: "正常系: 決済照会",
			setupMock: func(m *MockPaymentService) {
				m.On("GetPayment", mock.Anything, "T1").Return(&paymentapp.PaymentResponse{
					CodTrans:      "T1",
					Amount:        5000,
					AmountDecimal: "50.00",
					Currency:      "EUR",
					Status:        "completed",
					Outcome:       "OK",
					AuthCode:      "ABC123",
					CreatedAt:     created,
					UpdatedAt:     created,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "異常系: 決済が見つからない",
			setupMock: func(m *MockPaymentService) {
				m.On("GetPayment", mock.Anything, "T1").Return(nil, payment.ErrPaymentNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			mockService := new(MockPaymentService)
			tt.setupMock(mockService)
			h := NewPaymentHandler(mockService)
			e.GET("/api/v1/payments/:cod_trans", h.GetPayment)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/T1", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp PaymentResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "50.00", resp.Amount)
				assert.Equal(t, "completed", resp.Status)
				assert.Equal(t, "ABC123", resp.AuthCode)
				assert.True(t, created.Equal(resp.CreatedAt))
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestPaymentHandler_ListPaymentMethods(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockPaymentService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "正常系: 決済手段一覧",
			setupMock: func(m *MockPaymentService) {
				m.On("ListPaymentMethods", mock.Anything, "shop", "1.0", "2.0").Return(&paymentapp.PaymentMethodsResponse{
					LogoSmall: "small.png",
					LogoLarge: "large.png",
					Methods: []paymentapp.PaymentMethod{
						{Code: "VISA", Description: "Visa", SelectedCard: "VISA", Type: "CC", Recurring: true},
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "異常系: ゲートウェイのエラー応答",
			setupMock: func(m *MockPaymentService) {
				m.On("ListPaymentMethods", mock.Anything, "shop", "1.0", "2.0").
					Return(nil, &gateway.ResponseError{Code: 3, Message: "Invalid parameters"})
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "gateway_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			mockService := new(MockPaymentService)
			tt.setupMock(mockService)
			h := NewPaymentHandler(mockService)
			e.GET("/api/v1/payment-methods", h.ListPaymentMethods)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-methods?platform=shop&platform_vers=1.0&plugin_vers=2.0", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp PaymentMethodsResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				require.Len(t, resp.Methods, 1)
				assert.Equal(t, "VISA", resp.Methods[0].Code)
				assert.True(t, resp.Methods[0].Recurring)
				assert.Equal(t, "small.png", resp.LogoSmall)
			} else {
				assert.Contains(t, rec.Body.String(), tt.expectedCode)
			}
			mockService.AssertExpectations(t)
		})
	}
}
