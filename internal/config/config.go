package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"scrapledger"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"scrapledger"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Invoice struct {
		PurchasePrefix string `envconfig:"INVOICE_PURCHASE_PREFIX" default:"PSK-"`
		SellPrefix     string `envconfig:"INVOICE_SELL_PREFIX" default:"SSK-"`
	}

	Business struct {
		Name     string `envconfig:"BUSINESS_NAME" default:"Scrap Trading Co."`
		Phone    string `envconfig:"BUSINESS_PHONE" default:""`
		Currency string `envconfig:"CURRENCY_LABEL" default:"PKR"`
	}

	Auth struct {
		// HMAC key for verifying bearer tokens issued by the external
		// identity provider. Empty disables verification (local dev).
		JWTSecret string `envconfig:"AUTH_JWT_SECRET" default:""`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
