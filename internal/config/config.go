package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name         string `envconfig:"APP_NAME" default:"Tally"`
		Port         int    `envconfig:"PORT" default:"8080"`
		BaseCurrency string `envconfig:"BASE_CURRENCY" default:"USD"`
	}

	DB struct {
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Port         int    `envconfig:"DB_PORT" default:"5432"`
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:""`
		Name         string `envconfig:"DB_NAME" default:"tally"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
		JWTExpiry  time.Duration `envconfig:"JWT_EXPIRES_IN" default:"168h"`
		BcryptCost int           `envconfig:"BCRYPT_COST" default:"12"`
	}

	CORS struct {
		Origins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	}

	Admin struct {
		Email    string `envconfig:"ADMIN_EMAIL" default:"admin@tally.local"`
		Password string `envconfig:"ADMIN_PASSWORD"`
	}

	Export struct {
		// BaseURL resolves document URLs stored as relative paths.
		BaseURL string `envconfig:"DOCUMENT_BASE_URL"`
		Token   string `envconfig:"DOCUMENT_STORE_TOKEN"`
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
