package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"challenger/database"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Logging
	LogLevel string

	// Settlement sweep configuration
	SettlementInterval  time.Duration
	SettlementBatchSize int
	SettlementLockKey   int64 // PostgreSQL advisory lock key shared by every sweeping instance

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)
	NATSEnabled bool

	// Notification configuration
	DiscordToken              string // Empty token falls back to log-only notifications
	NotificationRatePerSecond float64

	// Category policy
	CategoryMinEntryFees map[string]decimal.Decimal // keyed by category slug
	DefaultMinEntryFee   decimal.Decimal

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "otlp", "console" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the process runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MinimumEntryFee returns the configured minimum entry fee for a category.
// Categories are compared by slug so "Fitness " and "fitness" share a rule.
func (c *Config) MinimumEntryFee(category string) decimal.Decimal {
	if fee, ok := c.CategoryMinEntryFees[slug.Make(category)]; ok {
		return fee
	}
	return c.DefaultMinEntryFee
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		// Settlement defaults
		SettlementInterval:  time.Hour,
		SettlementBatchSize: 100,
		SettlementLockKey:   7304215,

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),
		NATSEnabled: os.Getenv("NATS_ENABLED") != "false",

		// Notifications
		DiscordToken:              os.Getenv("DISCORD_TOKEN"),
		NotificationRatePerSecond: 5,

		CategoryMinEntryFees: map[string]decimal.Decimal{},
		DefaultMinEntryFee:   decimal.Zero,

		// OpenTelemetry
		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "challenger"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "otlp"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317"),
		OTelExportIntervalMillis: 30000,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if interval := os.Getenv("SETTLEMENT_INTERVAL"); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid SETTLEMENT_INTERVAL: %w", err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("SETTLEMENT_INTERVAL must be positive, got %s", interval)
		}
		config.SettlementInterval = parsed
	}
	if size := os.Getenv("SETTLEMENT_BATCH_SIZE"); size != "" {
		if parsedSize, err := strconv.Atoi(size); err == nil && parsedSize > 0 {
			config.SettlementBatchSize = parsedSize
		}
	}
	if key := os.Getenv("SETTLEMENT_LOCK_KEY"); key != "" {
		if parsedKey, err := strconv.ParseInt(key, 10, 64); err == nil {
			config.SettlementLockKey = parsedKey
		}
	}
	if rate := os.Getenv("NOTIFICATION_RATE_PER_SECOND"); rate != "" {
		if parsedRate, err := strconv.ParseFloat(rate, 64); err == nil && parsedRate > 0 {
			config.NotificationRatePerSecond = parsedRate
		}
	}
	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MILLIS"); interval != "" {
		if parsedInterval, err := strconv.Atoi(interval); err == nil && parsedInterval > 0 {
			config.OTelExportIntervalMillis = parsedInterval
		}
	}

	if fee := os.Getenv("DEFAULT_MIN_ENTRY_FEE"); fee != "" {
		parsedFee, err := decimal.NewFromString(fee)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_MIN_ENTRY_FEE: %w", err)
		}
		config.DefaultMinEntryFee = parsedFee
	}

	fees, err := ParseCategoryFees(os.Getenv("CATEGORY_MIN_ENTRY_FEES"))
	if err != nil {
		return nil, err
	}
	config.CategoryMinEntryFees = fees

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// ParseCategoryFees parses a list like "fitness:10,reading:5.50" into fees keyed by category slug
func ParseCategoryFees(raw string) (map[string]decimal.Decimal, error) {
	fees := make(map[string]decimal.Decimal)
	if strings.TrimSpace(raw) == "" {
		return fees, nil
	}

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, amount, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("invalid category fee %q: expected category:amount", entry)
		}

		key := slug.Make(name)
		if key == "" {
			return nil, fmt.Errorf("invalid category fee %q: empty category", entry)
		}

		fee, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil {
			return nil, fmt.Errorf("invalid category fee %q: %w", entry, err)
		}
		if fee.IsNegative() {
			return nil, fmt.Errorf("invalid category fee %q: must not be negative", entry)
		}
		fees[key] = fee
	}

	return fees, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:               "test",
		LogLevel:                  "debug",
		SettlementInterval:        time.Hour,
		SettlementBatchSize:       10,
		SettlementLockKey:         7304215,
		NotificationRatePerSecond: 100,
		CategoryMinEntryFees:      map[string]decimal.Decimal{},
		DefaultMinEntryFee:        decimal.Zero,
		OTelExporterType:          "none",
	}
}
