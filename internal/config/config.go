// Package config loads the service configuration from the environment.
//
// Values come from environment variables (optionally seeded from a `.env` file) through viper,
// fall back to the defaults below, and are validated before use so the process fails fast.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// Database drivers understood by DATABASE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the root configuration object for the application.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Auth     AuthConfig
}

// AppConfig holds the HTTP listener and logging settings.
type AppConfig struct {
	Port     string `validate:"required"`
	Env      string `validate:"required"`
	LogLevel string `validate:"required,oneof=trace debug info warn error fatal panic disabled"`
}

// DatabaseConfig selects the persistence strategy.
// The memory driver keeps everything in process and needs no DSN.
type DatabaseConfig struct {
	Driver      string `validate:"required,oneof=memory sqlite postgres"`
	DSN         string `validate:"required_unless=Driver memory"`
	UpsertUsers bool
	LogQueries  bool
}

// RabbitMQConfig configures domain event publication. An empty URL disables it.
type RabbitMQConfig struct {
	URL      string `validate:"omitempty,url"`
	Exchange string `validate:"required_with=URL"`
	Queue    string `validate:"required_with=URL"`
}

// AuthConfig configures bearer-token authentication. An empty secret disables it.
type AuthConfig struct {
	JWTSecret string
}

// Enabled reports whether events should be published.
func (c RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

// Enabled reports whether API routes require a bearer token.
func (c AuthConfig) Enabled() bool {
	return c.JWTSecret != ""
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads the configuration through v, applying defaults first.
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", DriverMemory)
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("DATABASE_UPSERT_USERS", true)
	v.SetDefault("DATABASE_LOG_QUERIES", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "catalog.events")
	v.SetDefault("RABBITMQ_QUEUE", "catalog_audit")
	v.SetDefault("JWT_SECRET", "")
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Driver:      v.GetString("DATABASE_DRIVER"),
			DSN:         v.GetString("DATABASE_DSN"),
			UpsertUsers: v.GetBool("DATABASE_UPSERT_USERS"),
			LogQueries:  v.GetBool("DATABASE_LOG_QUERIES"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
			Queue:    v.GetString("RABBITMQ_QUEUE"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
