package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration options for shift-clock
type Config struct {
	Database    DatabaseConfig
	Time        TimeConfig
	Session     SessionConfig
	Billing     BillingConfig
	Server      ServerConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `env:"SC_DB_DIR"`
	Filename       string        `env:"SC_DB_FILENAME"`
	QueryTimeout   time.Duration `env:"SC_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"SC_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"SC_DB_DIR_PERMISSIONS"`
}

// TimeConfig holds time formatting and the location that defines a calendar day
type TimeConfig struct {
	DisplayFormat string `env:"SC_TIME_DISPLAY_FORMAT"`
	Location      string `env:"SC_TIME_LOCATION"`
}

// SessionConfig holds clock session policy
type SessionConfig struct {
	MaxDuration time.Duration `env:"SC_SESSION_MAX_DURATION"`
}

// BillingConfig holds invoice defaults
type BillingConfig struct {
	DefaultRate  float64 `env:"SC_BILLING_DEFAULT_RATE"`
	Currency     string  `env:"SC_BILLING_CURRENCY"`
	RateCardPath string  `env:"SC_BILLING_RATE_CARD"`
}

// ServerConfig holds the HTTP listener address
type ServerConfig struct {
	Host string `env:"SC_SERVER_HOST"`
	Port int    `env:"SC_SERVER_PORT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"SC_APP_TIMEOUT"`
	Verbose bool          `env:"SC_APP_VERBOSE"`
	UserID  string        `env:"SC_USER_ID"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Dir:            filepath.Join(homeDir, ".shiftclock"),
			Filename:       "shiftclock.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Time: TimeConfig{
			DisplayFormat: "2006-01-02 15:04:05",
			Location:      "Local",
		},
		Session: SessionConfig{
			MaxDuration: 24 * time.Hour,
		},
		Billing: BillingConfig{
			Currency: "USD",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetLocation resolves the configured location used for calendar days
func (c *Config) GetLocation() (*time.Location, error) {
	return time.LoadLocation(c.Time.Location)
}

// LoadFromEnvironment loads configuration from environment variables.
// Unparseable values leave the current setting in place.
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if dir := os.Getenv("SC_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("SC_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("SC_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("SC_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if perms := os.Getenv("SC_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Time configuration
	if format := os.Getenv("SC_TIME_DISPLAY_FORMAT"); format != "" {
		c.Time.DisplayFormat = format
	}
	if location := os.Getenv("SC_TIME_LOCATION"); location != "" {
		c.Time.Location = location
	}

	// Session configuration
	if maxDur := os.Getenv("SC_SESSION_MAX_DURATION"); maxDur != "" {
		c.Session.MaxDuration = ParseDurationWithFallback(maxDur, c.Session.MaxDuration)
	}

	// Billing configuration
	if rate := os.Getenv("SC_BILLING_DEFAULT_RATE"); rate != "" {
		c.Billing.DefaultRate = ParseFloatWithFallback(rate, c.Billing.DefaultRate)
	}
	if currency := os.Getenv("SC_BILLING_CURRENCY"); currency != "" {
		c.Billing.Currency = currency
	}
	if path := os.Getenv("SC_BILLING_RATE_CARD"); path != "" {
		c.Billing.RateCardPath = path
	}

	// Server configuration
	if host := os.Getenv("SC_SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SC_SERVER_PORT"); port != "" {
		c.Server.Port = ParseIntWithFallback(port, c.Server.Port)
	}

	// Application configuration
	if timeout := os.Getenv("SC_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("SC_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}
	if userID := os.Getenv("SC_USER_ID"); userID != "" {
		c.Application.UserID = userID
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate time configuration
	if c.Time.DisplayFormat == "" {
		return &ConfigError{Field: "time.display_format", Message: "display format cannot be empty"}
	}
	if _, err := c.GetLocation(); err != nil {
		return &ConfigError{Field: "time.location", Message: fmt.Sprintf("unknown location %q", c.Time.Location)}
	}

	// Validate session configuration
	if c.Session.MaxDuration <= 0 {
		return &ConfigError{Field: "session.max_duration", Message: "max session duration must be positive"}
	}

	// Validate billing configuration
	if c.Billing.DefaultRate < 0 {
		return &ConfigError{Field: "billing.default_rate", Message: "default rate cannot be negative"}
	}
	if c.Billing.Currency == "" {
		return &ConfigError{Field: "billing.currency", Message: "currency cannot be empty"}
	}

	// Validate server configuration
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "port must be between 1 and 65535"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
