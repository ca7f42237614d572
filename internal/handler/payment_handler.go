package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "ezeats/internal/errors"
	"ezeats/internal/paymob"
	"ezeats/internal/service"
)

const (
	paymentSuccessPath = "/success"
	paymentFailedPath  = "/checkout?error=payment_failed"
)

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
	log            *zap.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(paymentService service.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, log: log}
}

// PaymentItem is one cart line as the checkout page sends it.
type PaymentItem struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"min=1"`
}

// CreatePaymentRequest represents a checkout.
type CreatePaymentRequest struct {
	Items []PaymentItem   `json:"items" validate:"required,min=1,dive"`
	Total decimal.Decimal `json:"total"`
}

// CreatePaymentResponse tells the browser where to pay.
type CreatePaymentResponse struct {
	PaymentURL   string `json:"paymentUrl"`
	OrderID      int64  `json:"orderId"`
	PaymentToken string `json:"paymentToken"`
}

// Create godoc
// @Summary Start a payment
// @Description Registers the order with Paymob and returns the hosted payment page.
// @Tags payment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePaymentRequest true "Cart lines and total"
// @Success 200 {object} CreatePaymentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /payment/create [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if len(req.Items) == 0 {
		return service.ErrEmptyCheckout
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.NewHTTPError(http.StatusBadRequest, "Every item needs a name and a quantity of at least 1")
	}

	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.CheckoutItem{
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Quantity:    it.Quantity,
		})
	}

	session, err := h.paymentService.CreatePayment(c.Request().Context(), claims, items, req.Total)
	if err != nil {
		h.log.Error("payment creation failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, CreatePaymentResponse{
		PaymentURL:   session.PaymentURL,
		OrderID:      session.OrderID,
		PaymentToken: session.PaymentToken,
	})
}

// flexBool accepts true, "true" and their false counterparts.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
	case string:
		*b = flexBool(strings.EqualFold(t, "true"))
	default:
		*b = false
	}
	return nil
}

// UnmarshalParam lets form and query binding use the same rules.
func (b *flexBool) UnmarshalParam(param string) error {
	*b = flexBool(strings.EqualFold(param, "true"))
	return nil
}

// flexInt64 accepts a JSON number or a numeric string.
type flexInt64 int64

func (n *flexInt64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexInt64(v)
	return nil
}

func (n *flexInt64) UnmarshalParam(param string) error {
	v, _ := strconv.ParseInt(param, 10, 64)
	*n = flexInt64(v)
	return nil
}

// CallbackRequest covers both the flat redirect parameters and Paymob's
// transaction webhook, which nests the verdict under obj. The hmac arrives in
// the query string for the webhook and alongside the fields for the redirect.
type CallbackRequest struct {
	Success flexBool        `json:"success" form:"success" query:"success"`
	Order   flexInt64       `json:"order" form:"order" query:"order"`
	OrderID flexInt64       `json:"order_id" form:"order_id" query:"order_id"`
	HMAC    string          `json:"hmac" form:"hmac" query:"hmac"`
	Obj     json.RawMessage `json:"obj" form:"-" query:"-"`
}

type transactionVerdict struct {
	Success flexBool `json:"success"`
	Order   struct {
		ID flexInt64 `json:"id"`
	} `json:"order"`
}

func (r CallbackRequest) callback(c echo.Context) (service.Callback, error) {
	cb := service.Callback{Success: bool(r.Success), ProviderOrder: int64(r.OrderID), Signature: r.HMAC}
	if cb.ProviderOrder == 0 {
		cb.ProviderOrder = int64(r.Order)
	}
	if cb.Signature == "" {
		cb.Signature = c.QueryParam("hmac")
	}

	if len(r.Obj) > 0 && string(r.Obj) != "null" {
		var v transactionVerdict
		if err := json.Unmarshal(r.Obj, &v); err != nil {
			return cb, err
		}
		cb.Success = cb.Success || bool(v.Success)
		if v.Order.ID != 0 {
			cb.ProviderOrder = int64(v.Order.ID)
		}
		fields, err := paymob.FieldsFromJSON(r.Obj)
		if err != nil {
			return cb, err
		}
		cb.Fields = fields
		return cb, nil
	}

	// form params include the query string
	values, err := c.FormParams()
	if err != nil {
		values = c.QueryParams()
	}
	cb.Fields = paymob.FieldsFromValues(values)
	return cb, nil
}

// Callback godoc
// @Summary Payment provider callback
// @Description Verifies the provider hmac, settles the order and redirects the browser to the success or failure page.
// @Tags payment
// @Accept json
// @Param hmac query string false "Paymob HMAC-SHA512 signature"
// @Param request body CallbackRequest true "Provider verdict"
// @Success 303
// @Failure 500 {object} errors.ErrorResponse
// @Router /payment/callback [post]
func (h *PaymentHandler) Callback(c echo.Context) error {
	var req CallbackRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("malformed payment callback", zap.Error(err))
		return apperrors.NewHTTPError(http.StatusInternalServerError, "Callback processing failed")
	}
	cb, err := req.callback(c)
	if err != nil {
		h.log.Error("malformed payment callback", zap.Error(err))
		return apperrors.NewHTTPError(http.StatusInternalServerError, "Callback processing failed")
	}

	success := cb.Success
	if err := h.paymentService.HandleCallback(c.Request().Context(), cb); err != nil {
		h.log.Error("payment callback not recorded", zap.Int64("provider_order", cb.ProviderOrder), zap.Error(err))
		if errors.Is(err, paymob.ErrInvalidSignature) {
			success = false
		}
	}

	if success {
		return c.Redirect(http.StatusSeeOther, paymentSuccessPath)
	}
	return c.Redirect(http.StatusSeeOther, paymentFailedPath)
}
