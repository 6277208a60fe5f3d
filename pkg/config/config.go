package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PROCUREMENT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv            = "PROCUREMENT_APP_ENV"
	EnvPort              = "PROCUREMENT_APP_PORT"
	EnvLogLevel          = "PROCUREMENT_LOG_LEVEL"
	EnvLogFormat         = "PROCUREMENT_LOG_FORMAT"
	EnvCORSOrigins       = "PROCUREMENT_CORS_ORIGINS"
	EnvBackendBaseURL    = "PROCUREMENT_BACKEND_BASE_URL"
	EnvBackendTimeout    = "PROCUREMENT_BACKEND_TIMEOUT"
	EnvRedisURL          = "PROCUREMENT_REDIS_URL"
	EnvRedisAddr         = "PROCUREMENT_REDIS_ADDR"
	EnvJWTSecret         = "PROCUREMENT_JWT_SECRET"
	EnvJWTIssuer         = "PROCUREMENT_JWT_ISSUER"
	EnvCartTTL           = "PROCUREMENT_CART_TTL"
	EnvCartMaxLines      = "PROCUREMENT_CART_MAX_LINES"
	EnvCatalogCacheTTL   = "PROCUREMENT_CATALOG_CACHE_TTL"
	EnvOrdersConcurrency = "PROCUREMENT_ORDERS_MAX_CONCURRENT"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Cart    CartConfig
	Catalog CatalogConfig
	Orders  OrdersConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"PROCUREMENT_APP_ENV" required:"true"`
	Port         string   `envconfig:"PROCUREMENT_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"PROCUREMENT_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"PROCUREMENT_LOG_WARN_STACK" default:"false"`
	LogFormat    string   `envconfig:"PROCUREMENT_LOG_FORMAT" default:"json"`
	CORSOrigins  []string `envconfig:"PROCUREMENT_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the marketplace REST API that owns products and orders.
type BackendConfig struct {
	BaseURL string        `envconfig:"PROCUREMENT_BACKEND_BASE_URL" default:"http://localhost:5000"`
	Timeout time.Duration `envconfig:"PROCUREMENT_BACKEND_TIMEOUT" default:"10s"`
}

func (b BackendConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(b.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvBackendBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvBackendBaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", EnvBackendBaseURL)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvBackendTimeout)
	}
	return nil
}

// RedisConfig is optional; when neither URL nor Address is set carts and the
// catalog cache stay in process memory.
type RedisConfig struct {
	URL          string        `envconfig:"PROCUREMENT_REDIS_URL"`
	Address      string        `envconfig:"PROCUREMENT_REDIS_ADDR"`
	Password     string        `envconfig:"PROCUREMENT_REDIS_PASSWORD"`
	DB           int           `envconfig:"PROCUREMENT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PROCUREMENT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PROCUREMENT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PROCUREMENT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PROCUREMENT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PROCUREMENT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret string `envconfig:"PROCUREMENT_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"PROCUREMENT_JWT_ISSUER" required:"true"`
}

type CartConfig struct {
	TTL      time.Duration `envconfig:"PROCUREMENT_CART_TTL" default:"2h"`
	MaxLines int           `envconfig:"PROCUREMENT_CART_MAX_LINES" default:"100"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"PROCUREMENT_CATALOG_CACHE_TTL" default:"30s"`
}

type OrdersConfig struct {
	// MaxConcurrent bounds in-flight vendor submissions; 0 means unbounded.
	MaxConcurrent int `envconfig:"PROCUREMENT_ORDERS_MAX_CONCURRENT" default:"0"`
}
