package repository

import (
	"context"

	"gorm.io/gorm"

	"ezeats/internal/model"
)

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByProviderOrder(ctx context.Context, providerOrder int64) (*model.Order, error)
	UpdateStatus(ctx context.Context, order *model.Order, status model.OrderStatus) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create creates a new order record.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

// FindByProviderOrder finds an order by the payment provider's order id.
func (r *orderRepository) FindByProviderOrder(ctx context.Context, providerOrder int64) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Where("provider_order = ?", providerOrder).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// UpdateStatus moves an order to status.
func (r *orderRepository) UpdateStatus(ctx context.Context, order *model.Order, status model.OrderStatus) error {
	if err := r.db.WithContext(ctx).Model(order).Update("status", status).Error; err != nil {
		return err
	}
	order.Status = status
	return nil
}

// PaymentEventRepository defines payment event persistence operations.
type PaymentEventRepository interface {
	Create(ctx context.Context, event *model.PaymentEvent) error
	CreateBatch(ctx context.Context, events []model.PaymentEvent) error
}

type paymentEventRepository struct {
	db *gorm.DB
}

// NewPaymentEventRepository creates a new payment event repository.
func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &paymentEventRepository{db: db}
}

// Create creates a new payment event entry.
func (r *paymentEventRepository) Create(ctx context.Context, event *model.PaymentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CreateBatch creates multiple payment events in one statement.
func (r *paymentEventRepository) CreateBatch(ctx context.Context, events []model.PaymentEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(events, 100).Error
}
