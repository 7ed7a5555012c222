package cli

import (
	"context"
	"fmt"
	"log/slog"

	"shift-clock/internal/api"
	"shift-clock/internal/invoice"
	"shift-clock/internal/server"
)

// CloseStaleCommand handles the close-stale command
type CloseStaleCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewCloseStaleCommand creates a new close-stale command handler
func NewCloseStaleCommand(app *App) *CloseStaleCommand {
	return &CloseStaleCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute force-closes every session open past the maximum duration
func (c *CloseStaleCommand) Execute(ctx context.Context, args []string) error {
	closed, err := c.app.api.CloseStaleSessions(ctx)
	if err != nil {
		return c.errorHandler.Handle("close stale sessions", err)
	}

	if len(closed) == 0 {
		fmt.Fprintln(c.app.out, "No stale sessions found.")
		return nil
	}

	for _, entry := range closed {
		fmt.Fprintf(c.app.out, "Closed %s on %s: %s - %s (needs review)\n",
			entry.UserID, entry.EventID,
			c.app.formatTime(entry.ClockInTime),
			c.app.formatTimePtr(entry.ClockOutTime, "open"))
	}
	fmt.Fprintf(c.app.out, "%d stale session(s) closed.\n", len(closed))
	return nil
}

// ServeCommand runs the HTTP server until its context is canceled
type ServeCommand struct {
	app       *App
	rateCards *invoice.RateCardStore
	logger    *slog.Logger
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App, runtime *api.Runtime, logger *slog.Logger) *ServeCommand {
	return &ServeCommand{app: app, rateCards: runtime.RateCards, logger: logger}
}

// Execute serves requests and, when a rate card file is configured, reloads
// it as it changes.
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	if c.rateCards != nil && c.rateCards.Path() != "" {
		go func() {
			if err := invoice.Watch(ctx, c.rateCards, invoice.DefaultReloadDelay, c.logger); err != nil {
				c.logger.Warn("rate card watcher stopped", "path", c.rateCards.Path(), "error", err)
			}
		}()
	}

	srv := server.New(c.logger, c.app.api).
		WithHost(c.app.config.Server.Host).
		WithPort(uint(c.app.config.Server.Port))

	return srv.Serve(ctx)
}
