package api

import (
	"context"

	"shift-clock/internal/domain"
	"shift-clock/internal/invoice"
	"shift-clock/internal/services"
)

// Business domain types
type (
	Status         = services.Status
	ClockOutResult = services.ClockOutResult
	EventSummary   = services.EventSummary
)

// BusinessAPI defines every operation exposed to the CLI and HTTP server
type BusinessAPI interface {
	// ========== Clock Actions ==========

	// ClockIn opens a session for the user on the event
	ClockIn(ctx context.Context, userID, eventID string) (*domain.TimeEntry, error)

	// ClockOut closes the user's session, warning when it ran too long
	ClockOut(ctx context.Context, userID string) (*ClockOutResult, error)

	// StartBreak pauses the user's session
	StartBreak(ctx context.Context, userID string) (*domain.TimeEntry, error)

	// EndBreak resumes the user's session
	EndBreak(ctx context.Context, userID string) (*domain.TimeEntry, error)

	// ========== Query Operations ==========

	// GetStatus returns whether the user is clocked in or on break
	GetStatus(ctx context.Context, userID string) (*Status, error)

	// GetHistory returns the merged clock and break events of one day
	GetHistory(ctx context.Context, userID, date string) (domain.Timeline, error)

	// GetEventTimeEntries lists the user's sessions on an event
	GetEventTimeEntries(ctx context.Context, eventID, userID string) ([]*domain.TimeEntry, error)

	// ========== Billing ==========

	// SummarizeEvent prices every session of the pair; nil rate uses the rate card
	SummarizeEvent(ctx context.Context, eventID, userID string, rate *float64) (*EventSummary, error)

	// BuildInvoice assembles invoice lines for the pair
	BuildInvoice(ctx context.Context, eventID, userID string, rate *float64) (*invoice.Invoice, error)

	// ========== Administration ==========

	// CloseStaleSessions force-closes sessions open past the maximum duration
	CloseStaleSessions(ctx context.Context) ([]*domain.TimeEntry, error)
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	sessions services.SessionService
	times    services.TimeService
	billing  services.BillingService
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(container *services.ServiceContainer) BusinessAPI {
	return &businessAPIImpl{
		sessions: container.SessionService,
		times:    container.TimeService,
		billing:  container.BillingService,
	}
}

func (b *businessAPIImpl) ClockIn(ctx context.Context, userID, eventID string) (*domain.TimeEntry, error) {
	return b.sessions.ClockIn(ctx, userID, eventID)
}

func (b *businessAPIImpl) ClockOut(ctx context.Context, userID string) (*ClockOutResult, error) {
	return b.sessions.ClockOut(ctx, userID)
}

func (b *businessAPIImpl) StartBreak(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	return b.sessions.StartBreak(ctx, userID)
}

func (b *businessAPIImpl) EndBreak(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	return b.sessions.EndBreak(ctx, userID)
}

func (b *businessAPIImpl) GetStatus(ctx context.Context, userID string) (*Status, error) {
	return b.sessions.GetStatus(ctx, userID)
}

func (b *businessAPIImpl) GetHistory(ctx context.Context, userID, date string) (domain.Timeline, error) {
	return b.times.GetHistory(ctx, userID, date)
}

func (b *businessAPIImpl) GetEventTimeEntries(ctx context.Context, eventID, userID string) ([]*domain.TimeEntry, error) {
	return b.times.GetEventTimeEntries(ctx, eventID, userID)
}

func (b *businessAPIImpl) SummarizeEvent(ctx context.Context, eventID, userID string, rate *float64) (*EventSummary, error) {
	return b.billing.SummarizeEvent(ctx, eventID, userID, rate)
}

func (b *businessAPIImpl) BuildInvoice(ctx context.Context, eventID, userID string, rate *float64) (*invoice.Invoice, error) {
	return b.billing.BuildInvoice(ctx, eventID, userID, rate)
}

func (b *businessAPIImpl) CloseStaleSessions(ctx context.Context) ([]*domain.TimeEntry, error) {
	return b.sessions.CloseStaleSessions(ctx)
}
