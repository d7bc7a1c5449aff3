package config

import (
	"fmt"

	pkgconfig "github.com/Karaba21/Innowave/pkg/config"
	apperrors "github.com/Karaba21/Innowave/pkg/errors"
)

// Config holds all configuration for the storefront API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Shopify Storefront API
	ShopifyStoreDomain        string `env:"SHOPIFY_STORE_DOMAIN"`
	ShopifyStorefrontToken    string `env:"SHOPIFY_STOREFRONT_API_TOKEN"`
	ShopifyAPIVersion         string `env:"SHOPIFY_API_VERSION" envDefault:"2024-10"`
	ShopifyFeaturedCollection string `env:"SHOPIFY_FEATURED_COLLECTION" envDefault:""`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Kafka. Event publishing is disabled when no brokers are configured.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants. Missing storefront credentials
// are fatal at startup rather than a per-request failure.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.ShopifyStoreDomain == "" {
		return apperrors.Configuration("SHOPIFY_STORE_DOMAIN is required")
	}
	if c.ShopifyStorefrontToken == "" {
		return apperrors.Configuration("SHOPIFY_STOREFRONT_API_TOKEN is required")
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("invalid cart TTL: %d hours", c.CartTTL)
	}
	return nil
}

// KafkaEnabled reports whether event publishing is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaBrokers[0] != ""
}
