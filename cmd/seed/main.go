package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"ezeats/internal/auth"
	"ezeats/internal/cache"
	"ezeats/internal/config"
	"ezeats/internal/db"
	"ezeats/internal/logger"
	"ezeats/internal/repository"
	"ezeats/internal/service"
)

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

	zl.Info("starting seed script")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(gormDB, false, zl); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}
	zl.Info("database migrations completed")

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()

	userRepo := repository.NewUserRepository(gormDB)
	menuService := service.NewMenuService(repository.NewMenuRepository(gormDB), cacheClient, cfg.MenuCacheTTL)
	cartService := service.NewCartService(menuService, service.RedisCarts(cacheClient))
	authService := service.NewAuthService(userRepo, auth.NewJWTService(cfg.JWTSecret), auth.NewTokenStore(cacheClient),
		menuService, cartService, service.AuthOptions{SeedMode: true}, zl)

	ctx := context.Background()

	admin, err := authService.EnsureBootstrapAdmin(ctx)
	if err != nil {
		zl.Fatal("failed to provision admin", zap.Error(err))
	}
	zl.Info("admin account ready", zap.String("email", admin.Email))

	seeded, err := menuService.SeedIfEmpty(ctx)
	if err != nil {
		zl.Fatal("failed to seed menu", zap.Error(err))
	}
	if seeded == 0 {
		zl.Info("menu already populated, nothing to seed")
		return
	}
	zl.Info("seed completed successfully", zap.Int("menu_items", seeded))
}
