// Package paymob talks to the Paymob Accept API to turn a checkout into a hosted payment page.
package paymob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "ezeats/internal/errors"
)

// paymentKeyExpiry is how long, in seconds, a payment key stays usable.
const paymentKeyExpiry = 3600

// Config configures a Client.
type Config struct {
	BaseURL       string
	APIKey        string
	IntegrationID string
	IframeID      string
	Currency      string
	Timeout       time.Duration
	// HMACSecret verifies callbacks. Empty disables verification.
	HMACSecret    string
}

// Item is one order line as Paymob sees it.
type Item struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
}

// Checkout is what the caller wants to get paid for.
type Checkout struct {
	Items []Item
	Total decimal.Decimal
	Email string
}

// Session is a ready-to-redirect payment.
type Session struct {
	PaymentURL   string
	OrderID      int64
	PaymentToken string
	AmountCents  int64
	Currency     string
}

// Client is a Paymob Accept API client.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a new Paymob client.
func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Currency == "" {
		cfg.Currency = "EGP"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: timeout}}
}

// ToCents converts an amount to integer minor units, rounding half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

type authRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type orderItem struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

type orderRequest struct {
	AuthToken      string      `json:"auth_token"`
	DeliveryNeeded bool        `json:"delivery_needed"`
	AmountCents    int64       `json:"amount_cents"`
	Currency       string      `json:"currency"`
	Items          []orderItem `json:"items"`
}

type orderResponse struct {
	ID int64 `json:"id"`
}

type billingData struct {
	Apartment      string `json:"apartment"`
	Email          string `json:"email"`
	Floor          string `json:"floor"`
	FirstName      string `json:"first_name"`
	Street         string `json:"street"`
	Building       string `json:"building"`
	PhoneNumber    string `json:"phone_number"`
	ShippingMethod string `json:"shipping_method"`
	PostalCode     string `json:"postal_code"`
	City           string `json:"city"`
	Country        string `json:"country"`
	LastName       string `json:"last_name"`
	State          string `json:"state"`
}

type paymentKeyRequest struct {
	AuthToken     string      `json:"auth_token"`
	AmountCents   int64       `json:"amount_cents"`
	Expiration    int         `json:"expiration"`
	OrderID       int64       `json:"order_id"`
	BillingData   billingData `json:"billing_data"`
	Currency      string      `json:"currency"`
	IntegrationID interface{} `json:"integration_id"`
}

// CreatePayment authenticates, registers the order and requests a payment key.
// Any provider failure is reported as errors.ErrUpstream.
func (c *Client) CreatePayment(ctx context.Context, checkout Checkout) (*Session, error) {
	var auth tokenResponse
	if err := c.post(ctx, "/api/auth/tokens", authRequest{APIKey: c.cfg.APIKey}, &auth); err != nil {
		return nil, fmt.Errorf("paymob auth: %w", err)
	}
	if auth.Token == "" {
		return nil, fmt.Errorf("paymob auth: %w: empty token", apperrors.ErrUpstream)
	}

	amountCents := ToCents(checkout.Total)
	items := make([]orderItem, 0, len(checkout.Items))
	for _, it := range checkout.Items {
		items = append(items, orderItem{
			Name:        it.Name,
			AmountCents: ToCents(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))),
			Description: it.Description,
			Quantity:    it.Quantity,
		})
	}

	var order orderResponse
	err := c.post(ctx, "/api/ecommerce/orders", orderRequest{
		AuthToken:      auth.Token,
		DeliveryNeeded: false,
		AmountCents:    amountCents,
		Currency:       c.cfg.Currency,
		Items:          items,
	}, &order)
	if err != nil {
		return nil, fmt.Errorf("paymob order: %w", err)
	}
	if order.ID == 0 {
		return nil, fmt.Errorf("paymob order: %w: missing order id", apperrors.ErrUpstream)
	}

	email := checkout.Email
	if email == "" {
		email = "customer@example.com"
	}
	var key tokenResponse
	err = c.post(ctx, "/api/acceptance/payment_keys", paymentKeyRequest{
		AuthToken:     auth.Token,
		AmountCents:   amountCents,
		Expiration:    paymentKeyExpiry,
		OrderID:       order.ID,
		BillingData:   placeholderBilling(email),
		Currency:      c.cfg.Currency,
		IntegrationID: integrationID(c.cfg.IntegrationID),
	}, &key)
	if err != nil {
		return nil, fmt.Errorf("paymob payment key: %w", err)
	}
	if key.Token == "" {
		return nil, fmt.Errorf("paymob payment key: %w: empty token", apperrors.ErrUpstream)
	}

	return &Session{
		PaymentURL:   c.iframeURL(key.Token),
		OrderID:      order.ID,
		PaymentToken: key.Token,
		AmountCents:  amountCents,
		Currency:     c.cfg.Currency,
	}, nil
}

func (c *Client) iframeURL(paymentToken string) string {
	return fmt.Sprintf("%s/api/acceptance/iframes/%s?payment_token=%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.IframeID), url.QueryEscape(paymentToken))
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", apperrors.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", apperrors.ErrUpstream, resp.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", apperrors.ErrUpstream, err)
	}
	return nil
}

// integrationID sends numeric ids as numbers, which is what the API documents.
func integrationID(id string) interface{} {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

func placeholderBilling(email string) billingData {
	const na = "NA"
	return billingData{
		Apartment:      na,
		Email:          email,
		Floor:          na,
		FirstName:      "Customer",
		Street:         na,
		Building:       na,
		PhoneNumber:    na,
		ShippingMethod: na,
		PostalCode:     na,
		City:           na,
		Country:        na,
		LastName:       "User",
		State:          na,
	}
}
