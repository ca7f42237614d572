package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ezeats/internal/auth"
	"ezeats/internal/cache"
	"ezeats/internal/config"
	"ezeats/internal/db"
	"ezeats/internal/handler"
	"ezeats/internal/logger"
	"ezeats/internal/paymob"
	"ezeats/internal/repository"
	"ezeats/internal/router"
	"ezeats/internal/service"
)

// @title EzEats API
// @version 1.0
// @description Restaurant ordering API with menu, cart, Paymob checkout and cookie/JWT sessions.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		zl.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, zl); err != nil {
		zl.Fatal("database migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	carts := service.RedisCarts(cacheClient)
	if err := cacheClient.Ping(context.Background()); err != nil {
		zl.Warn("redis unreachable, caching disabled and carts kept in memory", zap.Error(err))
		carts = service.MemoryCarts()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	menuRepo := repository.NewMenuRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	eventRepo := repository.NewPaymentEventRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	menuService := service.NewMenuService(menuRepo, cacheClient, cfg.MenuCacheTTL)
	cartService := service.NewCartService(menuService, carts)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, menuService, cartService,
		service.AuthOptions{SeedMode: cfg.SeedMode}, zl)
	userService := service.NewUserService(userRepo, cacheClient)
	paymobClient := paymob.NewClient(paymob.Config{
		BaseURL:       cfg.Paymob.BaseURL,
		APIKey:        cfg.Paymob.APIKey,
		IntegrationID: cfg.Paymob.IntegrationID,
		IframeID:      cfg.Paymob.IframeID,
		Currency:      cfg.Paymob.Currency,
		Timeout:       cfg.Paymob.Timeout,
		HMACSecret:    cfg.Paymob.HMACSecret,
	})
	if cfg.Paymob.HMACSecret == "" {
		zl.Warn("PAYMOB_HMAC_SECRET not set: payment callbacks will redirect but never settle orders")
	}
	paymentService := service.NewPaymentService(paymobClient, orderRepo, eventRepo, cartService, zl)
	defer paymentService.Close()

	// Initialize handlers
	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(authService, !cfg.IsDevelopment()),
		Menu:    handler.NewMenuHandler(menuService),
		Cart:    handler.NewCartHandler(cartService),
		Payment: handler.NewPaymentHandler(paymentService, zl),
		User:    handler.NewUserHandler(userService),
	}
	if cfg.SeedMode {
		handlers.Seed = handler.NewSeedHandler(menuService, authService)
		zl.Warn("seed mode enabled: bootstrap admin and demo menu are provisioned on demand")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, zl, authService, handlers)

	zl.Info("swagger documentation available", zap.String("url", swaggerURL(cfg.SwaggerHost, cfg.ServerPort)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		zl.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
}

func swaggerURL(host, port string) string {
	switch {
	case host == "":
		return "http://localhost:" + port + "/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
