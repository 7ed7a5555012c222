package cli

import (
	"bytes"
	"context"
	"time"

	"shift-clock/internal/api"
	"shift-clock/internal/config"
	"shift-clock/internal/domain"
	"shift-clock/internal/invoice"
)

var shiftStart = time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

// mockBusinessAPI returns canned results and records the calls it receives
type mockBusinessAPI struct {
	entry    *domain.TimeEntry
	clockOut *api.ClockOutResult
	status   *api.Status
	timeline domain.Timeline
	entries  []*domain.TimeEntry
	summary  *api.EventSummary
	invoice  *invoice.Invoice
	closed   []*domain.TimeEntry
	err      error

	calls    []string
	userID   string
	eventID  string
	date     string
	rate     *float64
	deadline bool
}

func (m *mockBusinessAPI) record(ctx context.Context, call string) {
	m.calls = append(m.calls, call)
	_, m.deadline = ctx.Deadline()
}

func (m *mockBusinessAPI) ClockIn(ctx context.Context, userID, eventID string) (*domain.TimeEntry, error) {
	m.record(ctx, "ClockIn")
	m.userID, m.eventID = userID, eventID
	return m.entry, m.err
}

func (m *mockBusinessAPI) ClockOut(ctx context.Context, userID string) (*api.ClockOutResult, error) {
	m.record(ctx, "ClockOut")
	m.userID = userID
	return m.clockOut, m.err
}

func (m *mockBusinessAPI) StartBreak(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	m.record(ctx, "StartBreak")
	m.userID = userID
	return m.entry, m.err
}

func (m *mockBusinessAPI) EndBreak(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	m.record(ctx, "EndBreak")
	m.userID = userID
	return m.entry, m.err
}

func (m *mockBusinessAPI) GetStatus(ctx context.Context, userID string) (*api.Status, error) {
	m.record(ctx, "GetStatus")
	m.userID = userID
	return m.status, m.err
}

func (m *mockBusinessAPI) GetHistory(ctx context.Context, userID, date string) (domain.Timeline, error) {
	m.record(ctx, "GetHistory")
	m.userID, m.date = userID, date
	return m.timeline, m.err
}

func (m *mockBusinessAPI) GetEventTimeEntries(ctx context.Context, eventID, userID string) ([]*domain.TimeEntry, error) {
	m.record(ctx, "GetEventTimeEntries")
	m.userID, m.eventID = userID, eventID
	return m.entries, m.err
}

func (m *mockBusinessAPI) SummarizeEvent(ctx context.Context, eventID, userID string, rate *float64) (*api.EventSummary, error) {
	m.record(ctx, "SummarizeEvent")
	m.userID, m.eventID, m.rate = userID, eventID, rate
	return m.summary, m.err
}

func (m *mockBusinessAPI) BuildInvoice(ctx context.Context, eventID, userID string, rate *float64) (*invoice.Invoice, error) {
	m.record(ctx, "BuildInvoice")
	m.userID, m.eventID, m.rate = userID, eventID, rate
	return m.invoice, m.err
}

func (m *mockBusinessAPI) CloseStaleSessions(ctx context.Context) ([]*domain.TimeEntry, error) {
	m.record(ctx, "CloseStaleSessions")
	return m.closed, m.err
}

// newTestApp returns an App acting for user-1 in UTC, printing to a buffer
func newTestApp(mock *mockBusinessAPI) (*App, *bytes.Buffer) {
	cfg := config.NewConfig()
	cfg.Time.Location = "UTC"
	cfg.Application.UserID = "user-1"

	var out bytes.Buffer
	return NewAppWithConfig(mock, cfg).WithOutput(&out), &out
}

// freezeTime pins timeNow for the duration of a test
func freezeTime(t interface{ Cleanup(func()) }, now time.Time) {
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}
