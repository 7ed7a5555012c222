package cli

import (
	"context"
	"fmt"
	"strings"

	"shift-clock/internal/api"
	"shift-clock/internal/domain"
	"shift-clock/internal/errors"
	"shift-clock/internal/services"
)

// ClockInCommand handles the clock-in command
type ClockInCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewClockInCommand creates a new clock-in command handler
func NewClockInCommand(app *App) *ClockInCommand {
	return &ClockInCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute opens a session on the event named by the first argument
func (c *ClockInCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return c.errorHandler.Handle("clock in", errors.NewInvalidInputError("event", "", "an event ID is required"))
	}
	userID, err := c.app.userID()
	if err != nil {
		return c.errorHandler.Handle("clock in", err)
	}

	entry, err := c.app.api.ClockIn(ctx, userID, args[0])
	if err != nil {
		return c.errorHandler.Handle("clock in", err)
	}

	fmt.Fprintf(c.app.out, "Clocked in to %s at %s\n", entry.EventID, c.app.formatTime(entry.ClockInTime))
	return nil
}

// ClockOutCommand handles the clock-out command
type ClockOutCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewClockOutCommand creates a new clock-out command handler
func NewClockOutCommand(app *App) *ClockOutCommand {
	return &ClockOutCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute closes the user's session and prints the worked time
func (c *ClockOutCommand) Execute(ctx context.Context, args []string) error {
	userID, err := c.app.userID()
	if err != nil {
		return c.errorHandler.Handle("clock out", err)
	}

	result, err := c.app.api.ClockOut(ctx, userID)
	if err != nil {
		return c.errorHandler.Handle("clock out", err)
	}

	entry := result.Entry
	worked := entry.WorkedDuration(*entry.ClockOutTime) - entry.BreakDuration()
	fmt.Fprintf(c.app.out, "Clocked out of %s at %s (worked %s, breaks %s)\n",
		entry.EventID,
		c.app.formatTime(*entry.ClockOutTime),
		services.FormatDuration(worked),
		services.FormatDuration(entry.BreakDuration()))

	if result.Warning != nil {
		fmt.Fprintf(c.app.out, "Warning: %s\n", result.Warning.Message)
	}
	return nil
}

// BreakCommand handles break start and break end
type BreakCommand struct {
	app          *App
	errorHandler *ErrorHandler
	start        bool
}

// NewStartBreakCommand creates a handler that pauses the session
func NewStartBreakCommand(app *App) *BreakCommand {
	return &BreakCommand{app: app, errorHandler: NewErrorHandler(), start: true}
}

// NewEndBreakCommand creates a handler that resumes the session
func NewEndBreakCommand(app *App) *BreakCommand {
	return &BreakCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute starts or ends a break
func (c *BreakCommand) Execute(ctx context.Context, args []string) error {
	operation := "end break"
	action := c.app.api.EndBreak
	if c.start {
		operation = "start break"
		action = c.app.api.StartBreak
	}

	userID, err := c.app.userID()
	if err != nil {
		return c.errorHandler.Handle(operation, err)
	}

	entry, err := action(ctx, userID)
	if err != nil {
		return c.errorHandler.Handle(operation, err)
	}

	last := entry.Breaks[len(entry.Breaks)-1]
	if c.start {
		fmt.Fprintf(c.app.out, "Break started on %s at %s\n", entry.EventID, c.app.formatTime(last.StartTime))
		return nil
	}
	fmt.Fprintf(c.app.out, "Break ended on %s at %s (%s)\n",
		entry.EventID, c.app.formatTimePtr(last.EndTime, "-"), services.FormatDuration(last.Duration()))
	return nil
}

// StatusCommand handles the status command
type StatusCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewStatusCommand creates a new status command handler
func NewStatusCommand(app *App) *StatusCommand {
	return &StatusCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute prints whether the user is clocked in or on break
func (c *StatusCommand) Execute(ctx context.Context, args []string) error {
	userID, err := c.app.userID()
	if err != nil {
		return c.errorHandler.Handle("get status", err)
	}

	status, err := c.app.api.GetStatus(ctx, userID)
	if err != nil {
		return c.errorHandler.Handle("get status", err)
	}

	fmt.Fprintln(c.app.out, describeStatus(c.app, status))
	return nil
}

func describeStatus(app *App, status *api.Status) string {
	if status == nil || status.Entry == nil || status.State == domain.StateNotClockedIn {
		return "Not clocked in"
	}

	entry := status.Entry
	now := timeNow()
	worked := entry.WorkedDuration(now) - entry.BreakDuration()
	if status.IsOnBreak {
		last := entry.Breaks[len(entry.Breaks)-1]
		return fmt.Sprintf("On break from %s since %s (%s worked)",
			entry.EventID, app.formatTime(last.StartTime), services.FormatDuration(worked-now.Sub(last.StartTime)))
	}
	return fmt.Sprintf("Working on %s since %s (%s worked, %s on break)",
		entry.EventID, app.formatTime(entry.ClockInTime),
		services.FormatDuration(worked), services.FormatDuration(entry.BreakDuration()))
}
