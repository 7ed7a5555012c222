package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shift-clock/internal/api"
	"shift-clock/internal/config"
	"shift-clock/internal/logging"
)

// RuntimeOpener builds the business API for a loaded configuration
type RuntimeOpener func(cfg *config.Config, logger *slog.Logger) (*api.Runtime, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	open   RuntimeOpener
	loader *config.Loader

	config  *config.Config
	runtime *api.Runtime
	logger  *slog.Logger

	out    io.Writer
	errOut io.Writer
}

// NewRootCommand creates the root cobra command with global flags. open is
// called lazily by the commands that need the database.
func NewRootCommand(open RuntimeOpener) *RootCommand {
	root := &RootCommand{
		open:   open,
		loader: config.NewLoader(),
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	root.cmd = &cobra.Command{
		Use:   "shiftclock",
		Short: "Clock in, take breaks and bill event hours",
		Long: `shiftclock tracks when staff clock in and out of events, the breaks they
take in between, and turns the recorded sessions into billable hours and
invoice lines.

EXAMPLES:
  shiftclock --user alice clock-in gala-2024     # Start a session on an event
  shiftclock --user alice break start            # Pause the session
  shiftclock --user alice break end              # Resume it
  shiftclock --user alice clock-out              # Close the session
  shiftclock --user alice history 2024-07-01     # Clock events of one day
  shiftclock --user alice invoice gala-2024      # Invoice lines for an event
  shiftclock serve --port 8080                   # Run the HTTP API
  shiftclock --user alice watch                  # Live status view

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > .env > defaults

  Database Configuration:
    SC_DB_DIR                              Database directory (default: ~/.shiftclock)
    SC_DB_FILENAME                         Database filename (default: shiftclock.db)
    SC_DB_QUERY_TIMEOUT                    Query timeout (default: 10s)
    SC_DB_WRITE_TIMEOUT                    Write timeout (default: 5s)

  Time Configuration:
    SC_TIME_DISPLAY_FORMAT                 Time format (default: 2006-01-02 15:04:05)
    SC_TIME_LOCATION                       Location defining a calendar day (default: Local)

  Session Configuration:
    SC_SESSION_MAX_DURATION                Session length flagged for review (default: 24h)

  Billing Configuration:
    SC_BILLING_DEFAULT_RATE                Hourly rate for events without one (default: 0)
    SC_BILLING_CURRENCY                    Invoice currency (default: USD)
    SC_BILLING_RATE_CARD                   Rate card YAML file (default: .shiftclock-rates.yaml)

  Server Configuration:
    SC_SERVER_HOST                         Listen host (default: localhost)
    SC_SERVER_PORT                         Listen port (default: 8080)

  Application Configuration:
    SC_APP_TIMEOUT                         Command timeout (default: 60s)
    SC_APP_VERBOSE                         Enable debug logging (default: false)
    SC_USER_ID                             User every clock action acts for
    SC_DEBUG                               Enable debug logging regardless of SC_APP_VERBOSE

GETTING HELP:
  shiftclock [command] --help              # Get help for any specific command
  shiftclock completion bash               # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// WithLoader replaces the configuration loader
func (r *RootCommand) WithLoader(loader *config.Loader) *RootCommand {
	r.loader = loader
	return r
}

// WithOutput redirects command output and log records
func (r *RootCommand) WithOutput(out, errOut io.Writer) *RootCommand {
	r.out = out
	r.errOut = errOut
	r.cmd.SetOut(out)
	r.cmd.SetErr(errOut)
	return r
}

// SetArgs sets the arguments parsed on the next Execute
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Execute runs the root command and releases the database afterwards
func (r *RootCommand) Execute(ctx context.Context) error {
	defer r.close()
	return r.cmd.ExecuteContext(ctx)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	clockInCmd := &cobra.Command{
		Use:   "clock-in [event]",
		Short: "Start a session on an event",
		Long:  "Clock in to an event. A user can only be clocked in to one event at a time.",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewClockInCommand(app).Execute(ctx, args)
		}),
	}

	clockOutCmd := &cobra.Command{
		Use:   "clock-out",
		Short: "Close the current session",
		Long: `Clock out of the current event. An open break is closed at the same time.
Sessions open longer than the maximum session duration are still closed but
flagged for review.`,
		Args: cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewClockOutCommand(app).Execute(ctx, args)
		}),
	}

	breakCmd := &cobra.Command{
		Use:   "break",
		Short: "Start or end a break",
	}
	breakCmd.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Pause the current session",
			Args:  cobra.NoArgs,
			RunE: r.run(func(ctx context.Context, app *App, args []string) error {
				return NewStartBreakCommand(app).Execute(ctx, args)
			}),
		},
		&cobra.Command{
			Use:   "end",
			Short: "Resume the current session",
			Args:  cobra.NoArgs,
			RunE: r.run(func(ctx context.Context, app *App, args []string) error {
				return NewEndBreakCommand(app).Execute(ctx, args)
			}),
		},
	)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether you are clocked in",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewStatusCommand(app).Execute(ctx, args)
		}),
	}

	historyCmd := &cobra.Command{
		Use:   "history [YYYY-MM-DD]",
		Short: "Show the clock events of a day",
		Long: `Show every clock-in, break and clock-out of one calendar day, across all
events, in chronological order. Without a date, today is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewHistoryCommand(app).Execute(ctx, args)
		}),
	}

	entriesCmd := &cobra.Command{
		Use:   "entries [event]",
		Short: "List your sessions on an event",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewEntriesCommand(app).Execute(ctx, args)
		}),
	}

	summaryCmd := &cobra.Command{
		Use:   "summary [event]",
		Short: "Show billable hours for an event",
		Args:  cobra.ExactArgs(1),
	}
	summaryCmd.Flags().Float64("rate", 0, "Hourly rate overriding the rate card")
	summaryCmd.RunE = r.run(func(ctx context.Context, app *App, args []string) error {
		return NewSummaryCommand(app, rateFlag(summaryCmd.Flags())).Execute(ctx, args)
	})

	invoiceCmd := &cobra.Command{
		Use:   "invoice [event]",
		Short: "Build invoice lines for an event",
		Long: `Price every session on the event and assemble invoice lines. Sessions
with no positive rate are rejected; open or over-long sessions are kept and
flagged for review.`,
		Args: cobra.ExactArgs(1),
	}
	invoiceCmd.Flags().Float64("rate", 0, "Hourly rate overriding the rate card")
	invoiceCmd.RunE = r.run(func(ctx context.Context, app *App, args []string) error {
		return NewInvoiceCommand(app, rateFlag(invoiceCmd.Flags())).Execute(ctx, args)
	})

	closeStaleCmd := &cobra.Command{
		Use:   "close-stale",
		Short: "Force-close sessions open past the maximum duration",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewCloseStaleCommand(app).Execute(ctx, args)
		}),
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Serve the clock and billing operations over HTTP until interrupted. The rate card file is reloaded when it changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime, err := r.openRuntime()
			if err != nil {
				return err
			}
			app := NewAppWithConfig(runtime.API, r.config).WithOutput(r.out)
			return NewServeCommand(app, runtime, r.logger).Execute(cmd.Context(), args)
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of your clock state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime, err := r.openRuntime()
			if err != nil {
				return err
			}
			app := NewAppWithConfig(runtime.API, r.config).WithOutput(r.out)
			return NewWatchCommand(app).Execute(cmd.Context(), args)
		},
	}

	r.cmd.AddCommand(
		clockInCmd,
		clockOutCmd,
		breakCmd,
		statusCmd,
		historyCmd,
		entriesCmd,
		summaryCmd,
		invoiceCmd,
		closeStaleCmd,
		serveCmd,
		watchCmd,
	)
}

// run wraps a handler with the runtime and the application timeout
func (r *RootCommand) run(handler func(ctx context.Context, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		runtime, err := r.openRuntime()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()

		return handler(ctx, NewAppWithConfig(runtime.API, r.config).WithOutput(r.out), args)
	}
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// loadConfig resolves configuration from defaults, the environment and flags
func (r *RootCommand) loadConfig() error {
	cfg, err := r.loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	r.config = cfg
	r.logger = logging.New(r.errOut, cfg.Application.Verbose)
	return nil
}

func (r *RootCommand) openRuntime() (*api.Runtime, error) {
	if r.runtime != nil {
		return r.runtime, nil
	}
	if r.config == nil {
		if err := r.loadConfig(); err != nil {
			return nil, err
		}
	}

	runtime, err := r.open(r.config, r.logger)
	if err != nil {
		return nil, NewErrorHandler().Handle("open database", err)
	}
	r.runtime = runtime
	r.logger.Debug("runtime opened", "db_path", r.config.GetDatabasePath())
	return runtime, nil
}

func (r *RootCommand) close() {
	if r.runtime == nil {
		return
	}
	if err := r.runtime.Close(); err != nil {
		r.logger.Warn("failed to close database", "error", err)
	}
	r.runtime = nil
}
