package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Guard modes accepted by GUARD_MODE.
const (
	GuardModeVerify   = "verify"
	GuardModePresence = "presence"
)

// ErrMissingJWTSecret is returned when JWT_SECRET is not configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env          string
	ServerPort   string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	SeedMode     bool
	GuardMode    string
	MenuCacheTTL time.Duration
	ResetDB      bool
	SwaggerHost  string
	Paymob       PaymobConfig
}

// PaymobConfig configures the Paymob Accept client.
type PaymobConfig struct {
	BaseURL       string
	APIKey        string
	IntegrationID string
	IframeID      string
	Currency      string
	Timeout       time.Duration
	HMACSecret    string
}

// IsDevelopment reports whether the service runs on a developer machine.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	env := getEnv("APP_ENV", "development")
	cfg := &Config{
		Env:          env,
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		MySQLDSN:     getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/ezeats?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		SeedMode:     getEnvBool("SEED_MODE", env != "production"),
		GuardMode:    strings.ToLower(getEnv("GUARD_MODE", GuardModeVerify)),
		MenuCacheTTL: getEnvDuration("MENU_CACHE_TTL", 5*time.Minute),
		ResetDB:      getEnvBool("RESET_DB", false),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
		Paymob: PaymobConfig{
			BaseURL:       getEnv("PAYMOB_BASE_URL", "https://accept.paymob.com"),
			APIKey:        os.Getenv("PAYMOB_API_KEY"),
			IntegrationID: os.Getenv("PAYMOB_INTEGRATION_ID"),
			IframeID:      getEnv("PAYMOB_IFRAME_ID", "930456"),
			Currency:      getEnv("PAYMOB_CURRENCY", "EGP"),
			Timeout:       getEnvDuration("PAYMOB_TIMEOUT", 15*time.Second),
			HMACSecret:    os.Getenv("PAYMOB_HMAC_SECRET"),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.GuardMode != GuardModeVerify && cfg.GuardMode != GuardModePresence {
		return nil, errors.New("GUARD_MODE must be verify or presence")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
