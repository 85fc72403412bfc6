package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Washrent"`
		Port int    `envconfig:"PORT" default:"8080"`
		Env  string `envconfig:"APP_ENV" default:"development"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"washrent"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout   time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		RateLimit int           `envconfig:"SERVER_RATE_LIMIT" default:"120"`
		Origins   []string      `envconfig:"SERVER_CORS_ORIGINS" default:"*"`
	}

	Log struct {
		Format string `envconfig:"LOG_FORMAT" default:"text"`
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
	}

	Redis struct {
		Enabled bool          `envconfig:"REDIS_ENABLED" default:"false"`
		Addr    string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		TTL     time.Duration `envconfig:"REDIS_TTL" default:"10m"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	Ledger struct {
		// Movements whose concept or notes contain any of these are order
		// payments logged twice and are left out of the ledger view.
		PaymentMarkers []string `envconfig:"LEDGER_PAYMENT_MARKERS" default:"pedido,orden,abono cliente"`
		Location       string   `envconfig:"LEDGER_LOCATION" default:"America/Bogota"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Location resolves Ledger.Location, the zone calendar days are counted in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Ledger.Location)
	if err != nil {
		return nil, fmt.Errorf("loading location %q: %w", c.Ledger.Location, err)
	}

	return loc, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.IsProduction() && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return &cfg, nil
}
