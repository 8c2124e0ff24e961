package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	HTTP      HTTPConfig
	Notify    NotifyConfig
	Reconcile ReconcileConfig
}

type DatabaseConfig struct {
	Driver           string
	Host             string
	Port             int
	User             string
	Password         string
	Name             string
	SSLMode          string
	MaxConns         int32
	MinConns         int32
	StatementTimeout time.Duration
	// SeedFile is a JSON or YAML fixture loaded into the memory store at startup
	SeedFile string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// HTTPConfig holds the router middleware settings
type HTTPConfig struct {
	AllowedOrigins []string
	RateLimit      string
}

// NotifyConfig sizes the notification dispatcher
type NotifyConfig struct {
	Workers       int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
}

type ReconcileConfig struct {
	Interval time.Duration
	Grace    time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "leave_ledger")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_STATEMENT_TIMEOUT", "5s")
	v.SetDefault("STORE_SEED_FILE", "")

	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_ACCESS_EXPIRATION_TIME", "1h")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "100-M")

	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("NOTIFY_QUEUE_SIZE", 1000)
	v.SetDefault("NOTIFY_BATCH_SIZE", 100)
	v.SetDefault("NOTIFY_FLUSH_INTERVAL", "2s")

	v.SetDefault("RECONCILE_INTERVAL", "10m")
	v.SetDefault("RECONCILE_GRACE", "1m")
}

// Load reads an optional .env file, then the process environment, and
// validates the result.
func Load() (*Config, error) {
	config := Read()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Read is Load without validation.
func Read() *Config {
	// A missing .env is fine; real deployments inject the environment.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	config := &Config{
		Database: DatabaseConfig{
			Driver:           strings.ToLower(v.GetString("STORE_DRIVER")),
			Host:             v.GetString("DB_HOST"),
			Port:             v.GetInt("DB_PORT"),
			User:             v.GetString("DB_USER"),
			Password:         v.GetString("DB_PASSWORD"),
			Name:             v.GetString("DB_NAME"),
			SSLMode:          v.GetString("DB_SSL_MODE"),
			MaxConns:         v.GetInt32("DB_MAX_CONNS"),
			MinConns:         v.GetInt32("DB_MIN_CONNS"),
			StatementTimeout: v.GetDuration("DB_STATEMENT_TIMEOUT"),
			SeedFile:         v.GetString("STORE_SEED_FILE"),
		},
		JWT: JWTConfig{
			Secret:           v.GetString("JWT_SECRET_KEY"),
			AccessExpiration: v.GetDuration("JWT_ACCESS_EXPIRATION_TIME"),
		},
		App: AppConfig{
			Port:     v.GetInt("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimit:      v.GetString("RATE_LIMIT"),
		},
		Notify: NotifyConfig{
			Workers:       v.GetInt("NOTIFY_WORKERS"),
			QueueSize:     v.GetInt("NOTIFY_QUEUE_SIZE"),
			BatchSize:     v.GetInt("NOTIFY_BATCH_SIZE"),
			FlushInterval: v.GetDuration("NOTIFY_FLUSH_INTERVAL"),
		},
		Reconcile: ReconcileConfig{
			Interval: v.GetDuration("RECONCILE_INTERVAL"),
			Grace:    v.GetDuration("RECONCILE_GRACE"),
		},
	}

	return config
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return errors.New("DB_PASSWORD is required")
		}
		if c.Database.SeedFile != "" {
			return errors.New("STORE_SEED_FILE requires STORE_DRIVER=memory")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.App.Port <= 0 {
		return fmt.Errorf("invalid APP_PORT %d", c.App.Port)
	}
	if c.JWT.AccessExpiration <= 0 {
		return errors.New("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func splitList(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
