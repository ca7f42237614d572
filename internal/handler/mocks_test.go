package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"ezeats/internal/auth"
	"ezeats/internal/cart"
	apperrors "ezeats/internal/errors"
	"ezeats/internal/model"
	"ezeats/internal/paymob"
	"ezeats/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *MockAuthService) EnsureBootstrapAdmin(ctx context.Context) (*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockMenuService struct {
	mock.Mock
}

func (m *MockMenuService) List(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuService) Get(ctx context.Context, id string) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuService) SeedIfEmpty(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, userID string) (cart.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(cart.Cart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID, itemID string, quantity int) (cart.Cart, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Get(0).(cart.Cart), args.Error(1)
}

func (m *MockCartService) SetQuantity(ctx context.Context, userID, itemID string, quantity int) (cart.Cart, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Get(0).(cart.Cart), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, itemID string) (cart.Cart, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Get(0).(cart.Cart), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, claims *auth.Claims, items []service.CheckoutItem, total decimal.Decimal) (*paymob.Session, error) {
	args := m.Called(ctx, claims, items, total)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymob.Session), args.Error(1)
}

func (m *MockPaymentService) HandleCallback(ctx context.Context, cb service.Callback) error {
	args := m.Called(ctx, cb)
	return args.Error(0)
}

func (m *MockPaymentService) Close() {}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type testValidator struct {
	v *validator.Validate
}

func (t *testValidator) Validate(i interface{}) error { return t.v.Struct(i) }

// newTestEcho builds an Echo with the production error handler. A non-nil
// claims value is injected the way the secured group does it.
func newTestEcho(claims *auth.Claims) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperrors.Handler
	e.Validator = &testValidator{v: validator.New()}
	if claims != nil {
		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				c.Set(ClaimsContextKey, claims)
				return next(c)
			}
		})
	}
	return e
}

func nopLogger() *zap.Logger { return zap.NewNop() }
