package cli

import (
	"context"
	"fmt"
	"strings"

	"shift-clock/internal/errors"
)

// SummaryCommand handles the summary command
type SummaryCommand struct {
	app          *App
	errorHandler *ErrorHandler
	rate         *float64
}

// NewSummaryCommand creates a summary handler. A nil rate uses the rate card.
func NewSummaryCommand(app *App, rate *float64) *SummaryCommand {
	return &SummaryCommand{app: app, errorHandler: NewErrorHandler(), rate: rate}
}

// Execute prints the billable breakdown of every session on the event
func (c *SummaryCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.errorHandler.Handle("summarize event", errors.NewInvalidInputError("event", "", "an event ID is required"))
	}
	userID, err := c.app.userID()
	if err != nil {
		return c.errorHandler.Handle("summarize event", err)
	}

	summary, err := c.app.api.SummarizeEvent(ctx, args[0], userID, c.rate)
	if err != nil {
		return c.errorHandler.Handle("summarize event", err)
	}

	if len(summary.Summaries) == 0 {
		fmt.Fprintf(c.app.out, "No time entries found for %s.\n", args[0])
		return nil
	}

	fmt.Fprintf(c.app.out, "Summary for %s (%s)\n", summary.EventID, summary.UserID)
	fmt.Fprintln(c.app.out, strings.Repeat("=", 75))
	fmt.Fprintf(c.app.out, "%-38s %8s %8s %8s %10s\n", "Entry", "Worked", "Breaks", "Hours", "Amount")
	fmt.Fprintln(c.app.out, strings.Repeat("-", 75))
	for _, s := range summary.Summaries {
		fmt.Fprintf(c.app.out, "%-38s %7dm %7dm %8.2f %10.2f", s.EntryID, s.WorkedMinutes, s.BreakMinutes, s.BillableHours, s.LineTotal)
		if s.Flags != 0 {
			fmt.Fprintf(c.app.out, "  [%s]", s.Flags)
		}
		fmt.Fprintln(c.app.out)
	}
	fmt.Fprintln(c.app.out, strings.Repeat("-", 75))
	fmt.Fprintf(c.app.out, "%-38s %8s %8s %8.2f %10.2f\n", "Total", "", "", summary.BillableHours, summary.Total)
	return nil
}

// InvoiceCommand handles the invoice command
type InvoiceCommand struct {
	app          *App
	errorHandler *ErrorHandler
	rate         *float64
}

// NewInvoiceCommand creates an invoice handler. A nil rate uses the rate card.
func NewInvoiceCommand(app *App, rate *float64) *InvoiceCommand {
	return &InvoiceCommand{app: app, errorHandler: NewErrorHandler(), rate: rate}
}

// Execute assembles and prints the invoice for the event
func (c *InvoiceCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.errorHandler.Handle("build invoice", errors.NewInvalidInputError("event", "", "an event ID is required"))
	}
	userID, err := c.app.userID()
	if err != nil {
		return c.errorHandler.Handle("build invoice", err)
	}

	inv, err := c.app.api.BuildInvoice(ctx, args[0], userID, c.rate)
	if err != nil {
		return c.errorHandler.Handle("build invoice", err)
	}

	fmt.Fprintf(c.app.out, "%s\n", titleStyle.Render("Invoice for "+inv.UserID))
	fmt.Fprintln(c.app.out, strings.Repeat("=", 75))
	fmt.Fprintf(c.app.out, "%-36s %8s %10s %12s\n", "Description", "Hours", "Rate", "Amount")
	fmt.Fprintln(c.app.out, strings.Repeat("-", 75))
	for _, line := range inv.Lines {
		fmt.Fprintf(c.app.out, "%-36s %8.2f %10.2f %12.2f", line.Description, line.Hours, line.Rate, line.Amount)
		if len(line.Flags) > 0 {
			fmt.Fprintf(c.app.out, "  [%s]", strings.Join(line.Flags, "|"))
		}
		fmt.Fprintln(c.app.out)
	}
	fmt.Fprintln(c.app.out, strings.Repeat("-", 75))
	fmt.Fprintf(c.app.out, "%-56s %12.2f\n", "Subtotal", inv.Subtotal)
	fmt.Fprintf(c.app.out, "%-56s %12.2f\n", fmt.Sprintf("Tax (%.2f%%)", inv.TaxPercent), inv.Tax)
	fmt.Fprintf(c.app.out, "%-56s %12.2f %s\n", "Total", inv.Total, inv.Currency)

	for _, rejected := range inv.Rejected {
		fmt.Fprintf(c.app.out, "%s\n", warningStyle.Render(fmt.Sprintf("Rejected %s: %s", rejected.EntryID, rejected.Reason)))
	}
	if inv.NeedsReview {
		fmt.Fprintf(c.app.out, "%s\n", warningStyle.Render("Some lines need review before this invoice is sent."))
	}
	return nil
}
