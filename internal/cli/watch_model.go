package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shift-clock/internal/api"
	"shift-clock/internal/errors"

	tea "github.com/charmbracelet/bubbletea"
)

const watchInterval = time.Second

type tickMsg time.Time

type statusMsg struct {
	status *api.Status
	err    error
}

// WatchModel is a live view of one user's clock state. It polls the status
// every tick and lets the user toggle a break.
type WatchModel struct {
	ctx    context.Context
	app    *App
	userID string

	Status *api.Status
	Err    error
	Now    time.Time
}

// NewWatchModel creates a watch view for userID
func NewWatchModel(ctx context.Context, app *App, userID string) *WatchModel {
	return &WatchModel{ctx: ctx, app: app, userID: userID, Now: timeNow()}
}

func (m *WatchModel) Init() tea.Cmd {
	return tea.Batch(m.fetchStatus, m.tick())
}

func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.Now = time.Time(msg)
		return m, tea.Batch(m.fetchStatus, m.tick())
	case statusMsg:
		m.Err = msg.err
		if msg.err == nil {
			m.Status = msg.status
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *WatchModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "r":
		return m, m.fetchStatus
	case "b":
		return m, m.toggleBreak
	}
	return m, nil
}

func (m *WatchModel) tick() tea.Cmd {
	return tea.Tick(watchInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *WatchModel) fetchStatus() tea.Msg {
	status, err := m.app.api.GetStatus(m.ctx, m.userID)
	return statusMsg{status: status, err: err}
}

// toggleBreak starts a break while working and ends it while on break
func (m *WatchModel) toggleBreak() tea.Msg {
	var err error
	switch {
	case m.Status == nil || !m.Status.IsClockedIn:
		err = errors.NewNotClockedInError(m.userID)
	case m.Status.IsOnBreak:
		_, err = m.app.api.EndBreak(m.ctx, m.userID)
	default:
		_, err = m.app.api.StartBreak(m.ctx, m.userID)
	}
	if err != nil {
		return statusMsg{status: m.Status, err: err}
	}
	return m.fetchStatus()
}

func (m *WatchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("shift-clock · " + m.userID))
	b.WriteString("\n\n")
	b.WriteString(boxStyle.Render(m.statusView()))
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(warningStyle.Render(errors.GetUserMessage(m.Err)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("b: break • r: refresh • q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *WatchModel) statusView() string {
	if m.Status == nil || m.Status.Entry == nil || !m.Status.IsClockedIn {
		return idleStyle.Render("Not clocked in")
	}

	entry := m.Status.Entry
	elapsed := entry.WorkedDuration(m.Now)
	breaks := entry.BreakDuration()
	state := workingStyle.Render("Working")
	if m.Status.IsOnBreak {
		last := entry.Breaks[len(entry.Breaks)-1]
		state = breakStyle.Render("On break")
		breaks += m.Now.Sub(last.StartTime)
	}

	lines := []string{
		state,
		labelStyle.Render("Event") + entry.EventID,
		labelStyle.Render("Since") + m.app.formatTime(entry.ClockInTime),
		labelStyle.Render("Worked") + formatClock(elapsed-breaks),
		labelStyle.Render("Breaks") + formatClock(breaks),
	}
	if entry.NeedsReview {
		lines = append(lines, warningStyle.Render("needs review"))
	}
	return strings.Join(lines, "\n")
}

// WatchCommand runs the live status view
type WatchCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewWatchCommand creates a new watch command handler
func NewWatchCommand(app *App) *WatchCommand {
	return &WatchCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the view until the user quits or ctx is canceled
func (c *WatchCommand) Execute(ctx context.Context, args []string) error {
	userID, err := c.app.userID()
	if err != nil {
		return c.errorHandler.Handle("watch", err)
	}

	p := tea.NewProgram(NewWatchModel(ctx, c.app, userID), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run watch: %w", err)
	}
	return nil
}
