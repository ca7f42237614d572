package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"ezeats/internal/cart"
	"ezeats/internal/model"
	"ezeats/internal/paymob"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockMenuRepository is a mock implementation of MenuRepository.
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMenuRepository) CreateBatch(ctx context.Context, items []model.MenuItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByProviderOrder(ctx context.Context, providerOrder int64) (*model.Order, error) {
	args := m.Called(ctx, providerOrder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, order *model.Order, status model.OrderStatus) error {
	args := m.Called(ctx, order, status)
	if args.Error(0) == nil {
		order.Status = status
	}
	return args.Error(0)
}

// recordingEventRepository collects payment events in memory.
type recordingEventRepository struct {
	mu      sync.Mutex
	events  []model.PaymentEvent
	batches int
}

func (r *recordingEventRepository) Create(ctx context.Context, event *model.PaymentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *recordingEventRepository) CreateBatch(ctx context.Context, events []model.PaymentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	r.batches++
	return nil
}

func (r *recordingEventRepository) snapshot() []model.PaymentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.PaymentEvent(nil), r.events...)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockGateway is a mock implementation of PaymentGateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePayment(ctx context.Context, checkout paymob.Checkout) (*paymob.Session, error) {
	args := m.Called(ctx, checkout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymob.Session), args.Error(1)
}

func (m *MockGateway) VerifyCallback(fields paymob.CallbackFields, signature string) error {
	args := m.Called(fields, signature)
	return args.Error(0)
}

// memoryCarts wraps MemoryCarts so tests can inspect what was persisted.
type memoryCarts struct {
	factory PersisterFactory
}

func newMemoryCarts() *memoryCarts {
	return &memoryCarts{factory: MemoryCarts()}
}

func (m *memoryCarts) load(userID string) cart.Cart {
	c, _ := m.factory(userID).Load(context.Background())
	return c
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
