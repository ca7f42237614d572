package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ezeats/internal/auth"
	"ezeats/internal/cart"
	apperrors "ezeats/internal/errors"
	"ezeats/internal/model"
	"ezeats/internal/paymob"
	"ezeats/internal/repository"
)

const (
	eventBatchSize     = 10
	eventFlushInterval = time.Second
	eventQueueSize     = 100
)

var (
	ErrEmptyCheckout = apperrors.NewValidationError("Cart is empty")
	ErrInvalidTotal  = apperrors.NewValidationError("Total must be greater than zero")
)

// PaymentGateway starts a hosted payment and authenticates its callbacks. *paymob.Client satisfies it.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, checkout paymob.Checkout) (*paymob.Session, error)
	VerifyCallback(fields paymob.CallbackFields, signature string) error
}

// CheckoutItem is one line of the checkout request as the client sends it.
type CheckoutItem struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
}

// Callback is the provider's verdict on an order. Fields and Signature are
// the signed transaction data the verdict is checked against.
type Callback struct {
	Success       bool
	ProviderOrder int64
	Fields        paymob.CallbackFields
	Signature     string
}

// PaymentService handles the payment handoff.
type PaymentService interface {
	CreatePayment(ctx context.Context, claims *auth.Claims, items []CheckoutItem, total decimal.Decimal) (*paymob.Session, error)
	HandleCallback(ctx context.Context, cb Callback) error
	// Close flushes pending payment events and stops the event worker.
	Close()
}

type paymentService struct {
	gateway   PaymentGateway
	orderRepo repository.OrderRepository
	eventRepo repository.PaymentEventRepository
	carts     CartService
	log       *zap.Logger

	events chan model.PaymentEvent
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPaymentService creates a new payment service and starts its event worker.
func NewPaymentService(
	gateway PaymentGateway,
	orderRepo repository.OrderRepository,
	eventRepo repository.PaymentEventRepository,
	carts CartService,
	log *zap.Logger,
) PaymentService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &paymentService{
		gateway:   gateway,
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		carts:     carts,
		log:       log,
		events:    make(chan model.PaymentEvent, eventQueueSize),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go s.eventWorker()

	return s
}

// eventWorker writes payment events in batches.
func (s *paymentService) eventWorker() {
	defer close(s.done)

	batch := make([]model.PaymentEvent, 0, eventBatchSize)
	ticker := time.NewTicker(eventFlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.eventRepo.CreateBatch(context.Background(), batch); err != nil {
			s.log.Error("failed to write payment events", zap.Int("count", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-s.events:
			batch = append(batch, ev)
			if len(batch) >= eventBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.ctx.Done():
			for {
				select {
				case ev := <-s.events:
					batch = append(batch, ev)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *paymentService) Close() {
	s.cancel()
	<-s.done
}

// recordEvent queues an event, writing it synchronously when the queue is full or closed.
func (s *paymentService) recordEvent(ctx context.Context, providerOrder int64, status model.OrderStatus, message string) {
	ev := model.PaymentEvent{ProviderOrder: providerOrder, Status: status, Message: message}

	if s.ctx.Err() == nil {
		select {
		case s.events <- ev:
			return
		default:
		}
	}
	if err := s.eventRepo.Create(ctx, &ev); err != nil {
		s.log.Error("failed to write payment event", zap.Int64("provider_order", providerOrder), zap.Error(err))
	}
}

// CreatePayment hands the checkout to the gateway and records the resulting order.
// The client total is charged as sent; a disagreement with the lines is only logged.
func (s *paymentService) CreatePayment(ctx context.Context, claims *auth.Claims, items []CheckoutItem, total decimal.Decimal) (*paymob.Session, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCheckout
	}
	if !total.IsPositive() {
		return nil, ErrInvalidTotal
	}

	checkout := paymob.Checkout{Total: total, Items: make([]paymob.Item, 0, len(items))}
	if claims != nil {
		checkout.Email = claims.Email
	}
	subtotal := decimal.Zero
	count := 0
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if it.Quantity > cart.MaxQuantity {
			return nil, ErrQuantityTooLarge
		}
		checkout.Items = append(checkout.Items, paymob.Item(it))
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		count += it.Quantity
	}

	expected := subtotal.Add(subtotal.Mul(cart.TaxRate))
	if paymob.ToCents(expected) != paymob.ToCents(total) {
		s.log.Warn("checkout total does not match items",
			zap.String("total", total.String()),
			zap.String("expected", expected.StringFixed(2)))
	}

	session, err := s.gateway.CreatePayment(ctx, checkout)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ProviderOrder: session.OrderID,
		Amount:        total.Round(2),
		Currency:      session.Currency,
		Items:         count,
		Status:        model.OrderStatusPending,
	}
	if claims != nil {
		if id, err := uuid.Parse(claims.UserID); err == nil {
			order.UserID = id
		}
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		// the provider already holds the order; the customer can still pay
		s.log.Error("failed to persist order", zap.Int64("provider_order", session.OrderID), zap.Error(err))
	}
	s.recordEvent(ctx, session.OrderID, model.OrderStatusPending, "payment key issued")

	return session, nil
}

// HandleCallback settles the order the provider reported on. Callbacks that fail
// signature verification change nothing. Unknown orders are logged and ignored so
// the customer is still redirected.
func (s *paymentService) HandleCallback(ctx context.Context, cb Callback) error {
	status := model.OrderStatusFailed
	if cb.Success {
		status = model.OrderStatusPaid
	}
	if cb.ProviderOrder == 0 {
		return nil
	}
	if err := s.gateway.VerifyCallback(cb.Fields, cb.Signature); err != nil {
		s.log.Warn("unverified payment callback ignored", zap.Int64("provider_order", cb.ProviderOrder), zap.Error(err))
		return err
	}
	if order := cb.Fields["order.id"]; order != strconv.FormatInt(cb.ProviderOrder, 10) {
		s.log.Warn("signed order id does not match callback", zap.Int64("provider_order", cb.ProviderOrder), zap.String("signed_order", order))
		return paymob.ErrInvalidSignature
	}
	if signed := cb.Fields["success"]; signed != strconv.FormatBool(cb.Success) {
		s.log.Warn("signed verdict does not match callback", zap.Int64("provider_order", cb.ProviderOrder), zap.String("signed_success", signed))
		return paymob.ErrInvalidSignature
	}

	s.recordEvent(ctx, cb.ProviderOrder, status, "provider callback")

	order, err := s.orderRepo.FindByProviderOrder(ctx, cb.ProviderOrder)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.log.Warn("callback for unknown order", zap.Int64("provider_order", cb.ProviderOrder))
		return nil
	}
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}
	if order.Status == model.OrderStatusPaid {
		return nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, order, status); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if status == model.OrderStatusPaid && order.UserID != uuid.Nil {
		if err := s.carts.Clear(ctx, order.UserID.String()); err != nil {
			s.log.Warn("failed to clear cart after payment", zap.String("user_id", order.UserID.String()), zap.Error(err))
		}
	}
	return nil
}
