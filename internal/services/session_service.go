package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"shift-clock/internal/clock"
	"shift-clock/internal/domain"
	"shift-clock/internal/errors"
	"shift-clock/internal/repository/sqlite"
)

// sessionServiceImpl implements the SessionService interface
type sessionServiceImpl struct {
	entryReader
	clock     clock.Clock
	opts      Options
	logger    *slog.Logger
}

// NewSessionService creates a new SessionService instance
func NewSessionService(repo sqlite.Repository, clk clock.Clock, opts Options, logger *slog.Logger) SessionService {
	return &sessionServiceImpl{
		entryReader: newEntryReader(repo),
		clock:       clk,
		opts:        opts.withDefaults(),
		logger:      logger,
	}
}

// ClockIn opens a new session for the user on the event.
func (s *sessionServiceImpl) ClockIn(ctx context.Context, userID, eventID string) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateUserAndEvent(userID, eventID); err != nil {
		return nil, err
	}
	userID, eventID = strings.TrimSpace(userID), strings.TrimSpace(eventID)

	entry := domain.NewTimeEntry(userID, eventID, s.clock.Now())
	row := s.mapper.TimeEntry.ToDatabase(entry)
	if err := s.repo.CreateTimeEntry(ctx, &row); err != nil {
		return nil, err
	}

	s.logger.Debug("clocked in", "user_id", userID, "event_id", eventID, "entry_id", row.ID)
	return s.get(ctx, row.ID)
}

// ClockOut closes the user's active session. A session that ran past the
// maximum duration is still closed, flagged for review, and returned with a
// stale session warning.
func (s *sessionServiceImpl) ClockOut(ctx context.Context, userID string) (*ClockOutResult, error) {
	entry, err := s.activeFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	closed, err := entry.ClockOut(now)
	if err != nil {
		return nil, err
	}
	stale := closed.IsStale(now, s.opts.MaxSessionDuration)

	if err := s.repo.CloseTimeEntry(ctx, entry.UserID, entry.ID, *closed.ClockOutTime, stale); err != nil {
		return nil, err
	}

	stored, err := s.get(ctx, entry.ID)
	if err != nil {
		return nil, err
	}

	result := &ClockOutResult{Entry: stored}
	if stale {
		worked := closed.WorkedDuration(now)
		result.Warning = errors.NewStaleSessionError(entry.UserID, worked, s.opts.MaxSessionDuration)
		s.logger.Warn("stale session closed", "user_id", entry.UserID, "entry_id", entry.ID, "open_for", worked.Round(time.Minute))
	}

	s.logger.Debug("clocked out", "user_id", entry.UserID, "event_id", entry.EventID, "entry_id", entry.ID)
	return result, nil
}

// StartBreak opens a break on the user's active session.
func (s *sessionServiceImpl) StartBreak(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	entry, err := s.activeFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if _, err := entry.StartBreak(now); err != nil {
		return nil, err
	}
	if _, err := s.repo.OpenBreak(ctx, entry.UserID, entry.ID, now); err != nil {
		return nil, err
	}

	s.logger.Debug("break started", "user_id", entry.UserID, "event_id", entry.EventID, "entry_id", entry.ID)
	return s.get(ctx, entry.ID)
}

// EndBreak closes the open break of the user's active session.
func (s *sessionServiceImpl) EndBreak(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	entry, err := s.activeFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if _, err := entry.EndBreak(now); err != nil {
		return nil, err
	}
	if err := s.repo.CloseBreak(ctx, entry.UserID, entry.ID, now); err != nil {
		return nil, err
	}

	s.logger.Debug("break ended", "user_id", entry.UserID, "event_id", entry.EventID, "entry_id", entry.ID)
	return s.get(ctx, entry.ID)
}

// GetStatus reports whether the user is clocked in or on break.
func (s *sessionServiceImpl) GetStatus(ctx context.Context, userID string) (*Status, error) {
	if err := s.validator.ValidateUserID(userID); err != nil {
		return nil, err
	}

	entry, ok, err := s.active(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Status{State: domain.StateNotClockedIn}, nil
	}

	return &Status{
		State:       entry.State(),
		IsClockedIn: entry.IsClockedIn(),
		IsOnBreak:   entry.IsOnBreak(),
		Entry:       entry,
	}, nil
}

// CloseStaleSessions closes every active session that has been open longer
// than the maximum duration. Each is clocked out at clock-in plus the maximum,
// or at its last break instant if later, and flagged for review. Sessions
// closed concurrently by their owner are skipped.
func (s *sessionServiceImpl) CloseStaleSessions(ctx context.Context) ([]*domain.TimeEntry, error) {
	limit := s.opts.MaxSessionDuration
	cutoff := s.clock.Now().Add(-limit)

	rows, err := s.repo.ListActiveTimeEntriesBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	closed := make([]*domain.TimeEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := s.decode(row)
		if err != nil {
			return closed, err
		}
		at := forceCloseInstant(*entry, limit)

		if _, err := entry.ClockOut(at); err != nil {
			return closed, err
		}
		if err := s.repo.CloseTimeEntry(ctx, entry.UserID, entry.ID, at, true); err != nil {
			if errors.Is(err, errors.ErrNotClockedIn) {
				continue
			}
			return closed, err
		}

		stored, err := s.get(ctx, entry.ID)
		if err != nil {
			return closed, err
		}
		s.logger.Info("stale session force-closed", "user_id", entry.UserID, "entry_id", entry.ID, "clock_out", at)
		closed = append(closed, stored)
	}

	return closed, nil
}

func (s *sessionServiceImpl) activeFor(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateUserID(userID); err != nil {
		return nil, err
	}
	return s.mustBeActive(ctx, strings.TrimSpace(userID))
}

// forceCloseInstant caps a session at clock-in plus limit without cutting
// into break activity recorded after that point.
func forceCloseInstant(entry domain.TimeEntry, limit time.Duration) time.Time {
	at := entry.ClockInTime.Add(limit)
	for _, b := range entry.Breaks {
		if b.StartTime.After(at) {
			at = b.StartTime
		}
		if b.EndTime != nil && b.EndTime.After(at) {
			at = *b.EndTime
		}
	}
	return at
}
