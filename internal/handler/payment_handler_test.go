package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ezeats/internal/auth"
	apperrors "ezeats/internal/errors"
	"ezeats/internal/paymob"
	"ezeats/internal/service"
)

func TestPaymentHandler_Create(t *testing.T) {
	svc := new(MockPaymentService)
	claims := &auth.Claims{UserID: "user-1", Email: "admin@ezeats.com"}
	e := newTestEcho(claims)
	e.POST("/api/payment/create", NewPaymentHandler(svc, nopLogger()).Create)

	svc.On("CreatePayment", mock.Anything, claims, mock.MatchedBy(func(items []service.CheckoutItem) bool {
		return len(items) == 1 && items[0].Name == "Lemonade" && items[0].Quantity == 2 &&
			items[0].Price.Equal(decimal.RequireFromString("29.99"))
	}), mock.MatchedBy(func(total decimal.Decimal) bool {
		return total.Equal(decimal.RequireFromString("65.978"))
	})).Return(&paymob.Session{PaymentURL: "https://accept/iframe?payment_token=pt", OrderID: 321, PaymentToken: "pt"}, nil)

	body := `{"items":[{"_id":"abc","name":"Lemonade","description":"Fresh","price":29.99,"quantity":2}],"total":65.978}`
	rec := doRequest(e, http.MethodPost, "/api/payment/create", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CreatePaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CreatePaymentResponse{PaymentURL: "https://accept/iframe?payment_token=pt", OrderID: 321, PaymentToken: "pt"}, resp)
}

func TestPaymentHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		serviceErr  error
		wantStatus  int
		wantMessage string
	}{
		{"no items", `{"items":[],"total":10}`, nil, http.StatusBadRequest, "Cart is empty"},
		{"item without quantity", `{"items":[{"name":"A","price":1}],"total":1}`, nil, http.StatusBadRequest, "Every item needs a name and a quantity of at least 1"},
		{"upstream failure", `{"items":[{"name":"A","price":1,"quantity":1}],"total":1.1}`, apperrors.ErrUpstream, http.StatusInternalServerError, "Failed to create payment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPaymentService)
			if tt.serviceErr != nil {
				svc.On("CreatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
			}
			e := newTestEcho(&auth.Claims{UserID: "user-1"})
			e.POST("/api/payment/create", NewPaymentHandler(svc, nopLogger()).Create)

			rec := doRequest(e, http.MethodPost, "/api/payment/create", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, decodeMessage(t, rec))
		})
	}
}

// verdict matches a callback on its verdict and order, ignoring signed data.
func verdict(success bool, providerOrder int64) interface{} {
	return mock.MatchedBy(func(cb service.Callback) bool {
		return cb.Success == success && cb.ProviderOrder == providerOrder
	})
}

func TestPaymentHandler_Callback(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantSuccess  bool
		wantOrder    int64
		wantLocation string
	}{
		{"string true", `{"success":"true","order_id":"7"}`, true, 7, "/success"},
		{"bool true", `{"success":true,"order":8}`, true, 8, "/success"},
		{"string false", `{"success":"false","order_id":9}`, false, 9, "/checkout?error=payment_failed"},
		{"missing flag", `{}`, false, 0, "/checkout?error=payment_failed"},
		{"unexpected flag type", `{"success":1}`, false, 0, "/checkout?error=payment_failed"},
		{"webhook envelope", `{"type":"TRANSACTION","obj":{"success":true,"order":{"id":42}}}`, true, 42, "/success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPaymentService)
			svc.On("HandleCallback", mock.Anything, verdict(tt.wantSuccess, tt.wantOrder)).Return(nil).Once()
			e := newTestEcho(nil)
			e.POST("/api/payment/callback", NewPaymentHandler(svc, nopLogger()).Callback)

			rec := doRequest(e, http.MethodPost, "/api/payment/callback", tt.body)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get(echo.HeaderLocation))
			svc.AssertExpectations(t)
		})
	}
}

func TestPaymentHandler_CallbackWebhookCarriesSignedFields(t *testing.T) {
	svc := new(MockPaymentService)
	var got service.Callback
	svc.On("HandleCallback", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(service.Callback) }).
		Return(nil).Once()
	e := newTestEcho(nil)
	e.POST("/api/payment/callback", NewPaymentHandler(svc, nopLogger()).Callback)

	body := `{"type":"TRANSACTION","obj":{"id":77,"amount_cents":46197,"success":true,"pending":false,` +
		`"currency":"EGP","order":{"id":42},"source_data":{"pan":"2346","type":"card","sub_type":"MasterCard"}}}`
	rec := doRequest(e, http.MethodPost, "/api/payment/callback?hmac=abc123", body)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "abc123", got.Signature)
	assert.Equal(t, "42", got.Fields["order.id"])
	assert.Equal(t, "true", got.Fields["success"])
	assert.Equal(t, "false", got.Fields["pending"])
	assert.Equal(t, "46197", got.Fields["amount_cents"])
	assert.Equal(t, "MasterCard", got.Fields["source_data.sub_type"])
}

func TestPaymentHandler_CallbackRedirectCarriesSignedFields(t *testing.T) {
	svc := new(MockPaymentService)
	var got service.Callback
	svc.On("HandleCallback", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(service.Callback) }).
		Return(nil).Once()
	e := newTestEcho(nil)
	e.GET("/api/payment/callback", NewPaymentHandler(svc, nopLogger()).Callback)

	query := url.Values{"success": {"true"}, "order": {"42"}, "id": {"77"}, "hmac": {"abc123"}}
	rec := doRequest(e, http.MethodGet, "/api/payment/callback?"+query.Encode(), "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/success", rec.Header().Get(echo.HeaderLocation))
	assert.True(t, got.Success)
	assert.Equal(t, int64(42), got.ProviderOrder)
	assert.Equal(t, "abc123", got.Signature)
	assert.Equal(t, "42", got.Fields["order.id"])
	assert.Equal(t, "77", got.Fields["id"])
}

func TestPaymentHandler_CallbackForgedSignatureRedirectsToFailure(t *testing.T) {
	svc := new(MockPaymentService)
	svc.On("HandleCallback", mock.Anything, verdict(true, 5)).Return(paymob.ErrInvalidSignature).Once()
	e := newTestEcho(nil)
	e.POST("/api/payment/callback", NewPaymentHandler(svc, nopLogger()).Callback)

	rec := doRequest(e, http.MethodPost, "/api/payment/callback?hmac=forged", `{"success":true,"order_id":5}`)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/checkout?error=payment_failed", rec.Header().Get(echo.HeaderLocation))
	svc.AssertExpectations(t)
}

func TestPaymentHandler_CallbackForm(t *testing.T) {
	svc := new(MockPaymentService)
	svc.On("HandleCallback", mock.Anything, verdict(true, 11)).Return(nil).Once()
	e := newTestEcho(nil)
	e.POST("/api/payment/callback", NewPaymentHandler(svc, nopLogger()).Callback)

	form := url.Values{"success": {"true"}, "order": {"11"}}
	rec := doRequest(e, http.MethodPost, "/api/payment/callback", "", func(r *http.Request) {
		r.Body = nopCloser{strings.NewReader(form.Encode())}
		r.ContentLength = int64(len(form.Encode()))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/success", rec.Header().Get(echo.HeaderLocation))
	svc.AssertExpectations(t)
}

func TestPaymentHandler_CallbackStillRedirectsWhenRecordingFails(t *testing.T) {
	svc := new(MockPaymentService)
	svc.On("HandleCallback", mock.Anything, mock.Anything).Return(assert.AnError)
	e := newTestEcho(nil)
	e.POST("/api/payment/callback", NewPaymentHandler(svc, nopLogger()).Callback)

	rec := doRequest(e, http.MethodPost, "/api/payment/callback", `{"success":"true","order_id":1}`)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/success", rec.Header().Get(echo.HeaderLocation))
}

func TestPaymentHandler_CallbackMalformed(t *testing.T) {
	svc := new(MockPaymentService)
	e := newTestEcho(nil)
	e.POST("/api/payment/callback", NewPaymentHandler(svc, nopLogger()).Callback)

	rec := doRequest(e, http.MethodPost, "/api/payment/callback", `{"success":`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Callback processing failed", decodeMessage(t, rec))
	svc.AssertNotCalled(t, "HandleCallback", mock.Anything, mock.Anything)
}

type nopCloser struct {
	*strings.Reader
}

func (nopCloser) Close() error { return nil }
