package services

import (
	"context"
	"log/slog"
	"time"

	"shift-clock/internal/billing"
	"shift-clock/internal/clock"
	"shift-clock/internal/domain"
	"shift-clock/internal/errors"
	"shift-clock/internal/invoice"
	"shift-clock/internal/repository/sqlite"
)

// DefaultMaxSessionDuration is the session length after which an entry is stale.
const DefaultMaxSessionDuration = 24 * time.Hour

// Options tune session and history behaviour.
type Options struct {
	// MaxSessionDuration marks sessions that ran longer for review.
	MaxSessionDuration time.Duration
	// Location defines day boundaries for history queries.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.MaxSessionDuration <= 0 {
		o.MaxSessionDuration = DefaultMaxSessionDuration
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Status is a user's current clock state.
type Status struct {
	State       domain.SessionState `json:"state"`
	IsClockedIn bool                `json:"isClockedIn"`
	IsOnBreak   bool                `json:"isOnBreak"`
	Entry       *domain.TimeEntry   `json:"entry,omitempty"`
}

// ClockOutResult is the closed entry plus a warning when the session was stale.
type ClockOutResult struct {
	Entry   *domain.TimeEntry `json:"entry"`
	Warning *errors.AppError  `json:"-"`
}

// EventSummary is the billable breakdown of one user's work on one event.
type EventSummary struct {
	EventID       string            `json:"eventId"`
	UserID        string            `json:"userId"`
	Summaries     []billing.Summary `json:"summaries"`
	BillableHours float64           `json:"billableHours"`
	Total         float64           `json:"total"`
}

// SessionService drives the clock-in, break and clock-out state machine.
type SessionService interface {
	ClockIn(ctx context.Context, userID, eventID string) (*domain.TimeEntry, error)
	ClockOut(ctx context.Context, userID string) (*ClockOutResult, error)
	StartBreak(ctx context.Context, userID string) (*domain.TimeEntry, error)
	EndBreak(ctx context.Context, userID string) (*domain.TimeEntry, error)
	GetStatus(ctx context.Context, userID string) (*Status, error)

	// CloseStaleSessions force-closes every active session older than the
	// maximum session duration.
	CloseStaleSessions(ctx context.Context) ([]*domain.TimeEntry, error)
}

// TimeService reads stored sessions back as entries and timelines.
type TimeService interface {
	GetHistory(ctx context.Context, userID, date string) (domain.Timeline, error)
	GetEventTimeEntries(ctx context.Context, eventID, userID string) ([]*domain.TimeEntry, error)
	DayRange(day time.Time) (time.Time, time.Time)
}

// BillingService prices sessions. A nil rate uses the rate card.
type BillingService interface {
	SummarizeEvent(ctx context.Context, eventID, userID string, rate *float64) (*EventSummary, error)
	BuildInvoice(ctx context.Context, eventID, userID string, rate *float64) (*invoice.Invoice, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	SessionService SessionService
	TimeService    TimeService
	BillingService BillingService
}

// NewServiceContainer wires every service over one repository and clock.
func NewServiceContainer(repo sqlite.Repository, assembler *invoice.Assembler, clk clock.Clock, opts Options, logger *slog.Logger) *ServiceContainer {
	times := NewTimeService(repo, clk, opts)
	return &ServiceContainer{
		SessionService: NewSessionService(repo, clk, opts, logger),
		TimeService:    times,
		BillingService: NewBillingService(times, assembler, clk),
	}
}
