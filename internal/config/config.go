package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds every runtime setting. Values come from the environment,
// optionally preloaded from a .env file.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME" envDefault:"crmleopard"`

	// AMQPURL enables the broker-backed reminder sync when set. Empty means
	// the in-process queue handles sync jobs.
	AMQPURL string `env:"AMQP_URL"`

	MaxPageSize     int    `env:"MAX_PAGE_SIZE" envDefault:"100"`
	DefaultPageSize int    `env:"DEFAULT_PAGE_SIZE" envDefault:"20"`
	ReportTTLHours  int    `env:"IMPORT_REPORT_TTL_HOURS" envDefault:"24"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the .env file if present and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}
