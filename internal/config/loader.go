package config

import (
	stderrors "errors"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	envFiles []string
}

// NewLoader creates a new configuration loader reading ./.env when present
func NewLoader() *Loader {
	return &Loader{
		config:   NewConfig(),
		envFiles: []string{".env"},
	}
}

// WithEnvFiles replaces the dotenv files read before the environment.
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = files
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Fill unset environment variables from dotenv files
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	// godotenv never replaces variables already set in the process
	for _, file := range l.envFiles {
		if err := godotenv.Load(file); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Field: "env_file", Message: err.Error()}
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides. Nil fields were not set.
type ConfigOverrides struct {
	// Database overrides
	DBDir          *string
	DBFilename     *string
	DBQueryTimeout *time.Duration
	DBWriteTimeout *time.Duration

	// Time overrides
	TimeFormat *string
	Location   *string

	// Session overrides
	MaxSessionDuration *time.Duration

	// Billing overrides
	DefaultRate  *float64
	RateCardPath *string

	// Server overrides
	Host *string
	Port *int

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
	UserID  *string
}

func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	setIf(&config.Database.Dir, overrides.DBDir)
	setIf(&config.Database.Filename, overrides.DBFilename)
	setIf(&config.Database.QueryTimeout, overrides.DBQueryTimeout)
	setIf(&config.Database.WriteTimeout, overrides.DBWriteTimeout)

	setIf(&config.Time.DisplayFormat, overrides.TimeFormat)
	setIf(&config.Time.Location, overrides.Location)

	setIf(&config.Session.MaxDuration, overrides.MaxSessionDuration)

	setIf(&config.Billing.DefaultRate, overrides.DefaultRate)
	setIf(&config.Billing.RateCardPath, overrides.RateCardPath)

	setIf(&config.Server.Host, overrides.Host)
	setIf(&config.Server.Port, overrides.Port)

	setIf(&config.Application.Timeout, overrides.Timeout)
	setIf(&config.Application.Verbose, overrides.Verbose)
	setIf(&config.Application.UserID, overrides.UserID)
}

func setIf[T any](dst *T, override *T) {
	if override != nil {
		*dst = *override
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseFloatWithFallback parses a decimal string with a fallback value
func ParseFloatWithFallback(s string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
