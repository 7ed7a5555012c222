package cli

import (
	"context"
	"fmt"
	"strings"

	"shift-clock/internal/errors"
	"shift-clock/internal/services"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewHistoryCommand creates a new history command handler
func NewHistoryCommand(app *App) *HistoryCommand {
	return &HistoryCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute prints the merged clock and break events of one day. The optional
// argument is a YYYY-MM-DD date; today is used without it.
func (c *HistoryCommand) Execute(ctx context.Context, args []string) error {
	userID, err := c.app.userID()
	if err != nil {
		return c.errorHandler.Handle("get history", err)
	}

	var date string
	if len(args) > 0 {
		date = args[0]
	}

	timeline, err := c.app.api.GetHistory(ctx, userID, date)
	if err != nil {
		return c.errorHandler.Handle("get history", err)
	}

	if len(timeline) == 0 {
		fmt.Fprintln(c.app.out, "No clock activity found.")
		return nil
	}

	fmt.Fprintf(c.app.out, "%-20s %-12s %s\n", "Time", "Event", "Type")
	fmt.Fprintln(c.app.out, strings.Repeat("-", 50))
	for event := range timeline.All() {
		fmt.Fprintf(c.app.out, "%-20s %-12s %s\n", c.app.formatTime(event.Time), event.EventID, event.Kind)
	}
	return nil
}

// EntriesCommand handles the entries command
type EntriesCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewEntriesCommand creates a new entries command handler
func NewEntriesCommand(app *App) *EntriesCommand {
	return &EntriesCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute lists the user's sessions on the event named by the first argument
func (c *EntriesCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.errorHandler.Handle("list entries", errors.NewInvalidInputError("event", "", "an event ID is required"))
	}
	userID, err := c.app.userID()
	if err != nil {
		return c.errorHandler.Handle("list entries", err)
	}

	entries, err := c.app.api.GetEventTimeEntries(ctx, args[0], userID)
	if err != nil {
		return c.errorHandler.Handle("list entries", err)
	}

	if len(entries) == 0 {
		fmt.Fprintf(c.app.out, "No time entries found for %s.\n", args[0])
		return nil
	}

	now := timeNow()
	fmt.Fprintf(c.app.out, "%-20s %-20s %-8s %-10s %s\n", "Clock In", "Clock Out", "Breaks", "Worked", "Review")
	fmt.Fprintln(c.app.out, strings.Repeat("-", 75))
	for _, entry := range entries {
		review := ""
		if entry.NeedsReview {
			review = "yes"
		}
		fmt.Fprintf(c.app.out, "%-20s %-20s %-8d %-10s %s\n",
			c.app.formatTime(entry.ClockInTime),
			c.app.formatTimePtr(entry.ClockOutTime, "open"),
			len(entry.Breaks),
			services.FormatDuration(entry.WorkedDuration(now)-entry.BreakDuration()),
			review)
	}
	return nil
}
