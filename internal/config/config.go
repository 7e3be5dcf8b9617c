package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Order source modes. Local aggregates the orders table in this
// database; shedsuite pulls orders from the ShedSuite API.
const (
	SourceLocal     = "local"
	SourceShedSuite = "shedsuite"
)

type Config struct {
	Database    DatabaseConfig
	JWT         JWTConfig
	App         AppConfig
	Redis       RedisConfig
	OrderSource OrderSourceConfig
	AutoRefresh AutoRefreshConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	// MigrationsPath is applied on startup. Empty skips migrations.
	MigrationsPath string
}

// JWTConfig holds JWT configuration. Tokens are issued by the order
// management platform; this service only verifies them, so the shared
// secret is all it needs.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// SlogLevel maps the LOG_LEVEL value onto a slog level. Unknown
// values fall back to info.
func (a AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RedisConfig holds the summary cache connection. An empty Addr
// disables caching entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// OrderSourceConfig selects where monthly order statistics come from.
// Mode "local" reads the orders table; "shedsuite" pulls from the
// ShedSuite API and needs BaseURL and APIKey.
type OrderSourceConfig struct {
	Mode    string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// AutoRefreshConfig controls the scheduled regeneration of the
// current period's ledger.
type AutoRefreshConfig struct {
	Enabled  bool
	Interval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:           getEnv("DB_HOST", "localhost"),
		Port:           dbPort,
		User:           getEnv("DB_USER", "postgres"),
		Password:       getEnv("DB_PASSWORD", ""),
		Name:           getEnv("DB_NAME", "salescomp"),
		SSLMode:        getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET", ""),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Order source configuration
	sourceTimeout, err := strconv.Atoi(getEnv("SHEDSUITE_TIMEOUT_SECONDS", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHEDSUITE_TIMEOUT_SECONDS: %w", err)
	}

	config.OrderSource = OrderSourceConfig{
		Mode:    getEnv("ORDER_SOURCE", SourceLocal),
		BaseURL: getEnv("SHEDSUITE_BASE_URL", ""),
		APIKey:  getEnv("SHEDSUITE_API_KEY", ""),
		Timeout: time.Duration(sourceTimeout) * time.Second,
	}

	// Auto refresh configuration
	refreshHours, err := strconv.Atoi(getEnv("LEDGER_AUTO_REFRESH_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_AUTO_REFRESH_HOURS: %w", err)
	}
	if refreshHours < 1 {
		return nil, fmt.Errorf("LEDGER_AUTO_REFRESH_HOURS must be at least 1, got %d", refreshHours)
	}

	config.AutoRefresh = AutoRefreshConfig{
		Enabled:  getEnv("LEDGER_AUTO_REFRESH", "false") == "true",
		Interval: time.Duration(refreshHours) * time.Hour,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.OrderSource.Mode {
	case SourceLocal:
	case SourceShedSuite:
		if c.OrderSource.BaseURL == "" {
			return fmt.Errorf("SHEDSUITE_BASE_URL is required when ORDER_SOURCE is shedsuite")
		}
		if c.OrderSource.APIKey == "" {
			return fmt.Errorf("SHEDSUITE_API_KEY is required when ORDER_SOURCE is shedsuite")
		}
	default:
		return fmt.Errorf("ORDER_SOURCE must be local or shedsuite, got %q", c.OrderSource.Mode)
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
