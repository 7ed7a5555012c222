package services

import (
	"context"
	"math"

	"shift-clock/internal/billing"
	"shift-clock/internal/clock"
	"shift-clock/internal/invoice"
	"shift-clock/internal/validation"
)

// billingServiceImpl implements the BillingService interface
type billingServiceImpl struct {
	times     TimeService
	assembler *invoice.Assembler
	clock     clock.Clock
	validator *validation.SessionValidator
}

// NewBillingService creates a new BillingService instance
func NewBillingService(times TimeService, assembler *invoice.Assembler, clk clock.Clock) BillingService {
	return &billingServiceImpl{
		times:     times,
		assembler: assembler,
		clock:     clk,
		validator: validation.NewSessionValidator(),
	}
}

// SummarizeEvent runs the calculator over every session of the pair. Open
// sessions are measured up to now.
func (b *billingServiceImpl) SummarizeEvent(ctx context.Context, eventID, userID string, rate *float64) (*EventSummary, error) {
	summaries, err := b.summaries(ctx, eventID, userID, rate)
	if err != nil {
		return nil, err
	}

	result := &EventSummary{EventID: eventID, UserID: userID, Summaries: summaries}
	var hoursCents, totalCents int64
	for _, s := range summaries {
		hoursCents += cents(s.BillableHours)
		totalCents += cents(s.LineTotal)
	}
	result.BillableHours = float64(hoursCents) / 100
	result.Total = float64(totalCents) / 100
	return result, nil
}

// BuildInvoice assembles the pair's sessions into invoice lines.
func (b *billingServiceImpl) BuildInvoice(ctx context.Context, eventID, userID string, rate *float64) (*invoice.Invoice, error) {
	summaries, err := b.summaries(ctx, eventID, userID, rate)
	if err != nil {
		return nil, err
	}

	inv := b.assembler.Assemble(userID, summaries)
	return &inv, nil
}

func (b *billingServiceImpl) summaries(ctx context.Context, eventID, userID string, rate *float64) ([]billing.Summary, error) {
	if rate != nil {
		if err := b.validator.ValidateRate(*rate); err != nil {
			return nil, err
		}
	}

	entries, err := b.times.GetEventTimeEntries(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	now := b.clock.Now()
	summaries := make([]billing.Summary, 0, len(entries))
	for _, entry := range entries {
		r := b.assembler.RateFor(entry.EventID)
		if rate != nil {
			r = *rate
		}
		summaries = append(summaries, billing.Calculate(*entry, r, now))
	}
	return summaries, nil
}

func cents(x float64) int64 {
	return int64(math.Round(x * 100))
}
