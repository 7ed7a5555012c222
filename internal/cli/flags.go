package cli

import (
	"github.com/spf13/pflag"

	"shift-clock/internal/config"
)

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides SC_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides SC_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides SC_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides SC_DB_WRITE_TIMEOUT)")

	// Time configuration
	flags.String("time-format", "", "Time display format (overrides SC_TIME_DISPLAY_FORMAT)")
	flags.String("location", "", "Location defining a calendar day (overrides SC_TIME_LOCATION)")

	// Session configuration
	flags.Duration("max-session", 0, "Session length flagged for review (overrides SC_SESSION_MAX_DURATION)")

	// Billing configuration
	flags.Float64("default-rate", 0, "Hourly rate for events without one (overrides SC_BILLING_DEFAULT_RATE)")
	flags.String("rate-card", "", "Rate card YAML file (overrides SC_BILLING_RATE_CARD)")

	// Server configuration
	flags.String("host", "", "Listen host (overrides SC_SERVER_HOST)")
	flags.Int("port", 0, "Listen port (overrides SC_SERVER_PORT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides SC_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides SC_APP_VERBOSE)")
	flags.StringP("user", "u", "", "User every clock action acts for (overrides SC_USER_ID)")
}

// overridesFromFlags collects the flags the user actually set
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()

	return &config.ConfigOverrides{
		DBDir:          changed(flags, "db-dir", flags.GetString),
		DBFilename:     changed(flags, "db-filename", flags.GetString),
		DBQueryTimeout: changed(flags, "db-query-timeout", flags.GetDuration),
		DBWriteTimeout: changed(flags, "db-write-timeout", flags.GetDuration),

		TimeFormat: changed(flags, "time-format", flags.GetString),
		Location:   changed(flags, "location", flags.GetString),

		MaxSessionDuration: changed(flags, "max-session", flags.GetDuration),

		DefaultRate:  changed(flags, "default-rate", flags.GetFloat64),
		RateCardPath: changed(flags, "rate-card", flags.GetString),

		Host: changed(flags, "host", flags.GetString),
		Port: changed(flags, "port", flags.GetInt),

		Timeout: changed(flags, "app-timeout", flags.GetDuration),
		Verbose: changed(flags, "verbose", flags.GetBool),
		UserID:  changed(flags, "user", flags.GetString),
	}
}

func changed[T any](flags *pflag.FlagSet, name string, get func(string) (T, error)) *T {
	if !flags.Changed(name) {
		return nil
	}
	value, err := get(name)
	if err != nil {
		return nil
	}
	return &value
}

func rateFlag(flags *pflag.FlagSet) *float64 {
	return changed(flags, "rate", flags.GetFloat64)
}
