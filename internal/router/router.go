package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"ezeats/docs"
	"ezeats/internal/auth"
	"ezeats/internal/config"
	apperrors "ezeats/internal/errors"
	"ezeats/internal/handler"
	"ezeats/internal/logger"
	guard "ezeats/internal/middleware"
)

// Handlers groups the HTTP handlers the router mounts. Seed is optional.
type Handlers struct {
	Auth    *handler.AuthHandler
	Menu    *handler.MenuHandler
	Cart    *handler.CartHandler
	Payment *handler.PaymentHandler
	User    *handler.UserHandler
	Seed    *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *zap.Logger, verifier guard.TokenVerifier, h Handlers) {
	e.HTTPErrorHandler = apperrors.Handler
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(guard.Guard(guard.GuardConfig{
		Mode:         cfg.GuardMode,
		Verifier:     verifier,
		SecureCookie: !cfg.IsDevelopment(),
	}))

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Browser pages
	e.GET("/", handler.Page("Login"))
	e.GET("/login", handler.Page("Login"))
	e.GET("/home", handler.Page("Menu"))
	e.GET("/checkout", handler.Page("Checkout"))
	e.GET("/success", handler.Page("Order placed"))

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/menu", h.Menu.List)
	api.GET("/menu/:id", h.Menu.Get)
	api.POST("/payment/callback", h.Payment.Callback)
	api.GET("/payment/callback", h.Payment.Callback)
	if h.Seed != nil {
		api.GET("/seed/menu", h.Seed.SeedMenu)
	}

	// Secured routes (require a valid, unrevoked session token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + auth.SessionCookieName,
		ContextKey:  handler.ClaimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return verifier.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.ErrUnauthorized
		},
	}))

	secured.GET("/me", h.User.Me)

	secured.GET("/cart", h.Cart.Get)
	secured.DELETE("/cart", h.Cart.Clear)
	secured.POST("/cart/items", h.Cart.AddItem)
	secured.PUT("/cart/items/:id", h.Cart.UpdateItem)
	secured.DELETE("/cart/items/:id", h.Cart.RemoveItem)

	secured.POST("/payment/create", h.Payment.Create)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
