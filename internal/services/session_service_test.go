package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift-clock/internal/domain"
	"shift-clock/internal/errors"
)

func TestSessionService_ClockIn(t *testing.T) {
	svc, _ := setupDefaultServices(t)
	ctx := context.Background()

	entry, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-1")
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "evt-1", entry.EventID)
	assert.True(t, entry.ClockInTime.Equal(shiftStart))
	assert.Nil(t, entry.ClockOutTime)
	assert.Equal(t, domain.StateWorking, entry.State())
}

func TestSessionService_ClockInTwice(t *testing.T) {
	tests := []struct {
		name        string
		secondEvent string
	}{
		{"same event", "evt-1"},
		{"different event", "evt-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, clk := setupDefaultServices(t)
			ctx := context.Background()

			_, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-1")
			require.NoError(t, err)

			clk.Advance(time.Minute)
			_, err = svc.SessionService.ClockIn(ctx, "user-1", tt.secondEvent)
			assert.ErrorIs(t, err, errors.ErrAlreadyClockedIn)

			first, err := svc.TimeService.GetEventTimeEntries(ctx, "evt-1", "user-1")
			require.NoError(t, err)
			second, err := svc.TimeService.GetEventTimeEntries(ctx, "evt-2", "user-1")
			require.NoError(t, err)
			assert.Len(t, append(first, second...), 1)
		})
	}
}

func TestSessionService_ClockInAgainWithinSameSecond(t *testing.T) {
	svc, _ := setupDefaultServices(t)
	ctx := context.Background()

	_, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-1")
	require.NoError(t, err)
	_, err = svc.SessionService.ClockOut(ctx, "user-1")
	require.NoError(t, err)

	status, err := svc.SessionService.GetStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, status.IsClockedIn)

	_, err = svc.SessionService.ClockIn(ctx, "user-1", "evt-1")
	assert.ErrorIs(t, err, errors.ErrDuplicateClockIn)
	assert.NotErrorIs(t, err, errors.ErrAlreadyClockedIn)
}

func TestSessionService_ConcurrentClockIn(t *testing.T) {
	svc, _ := setupDefaultServices(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errors.ErrAlreadyClockedIn)
	}
	assert.Equal(t, 1, succeeded)
}

func TestSessionService_Breaks(t *testing.T) {
	svc, clk := setupDefaultServices(t)
	ctx := context.Background()

	_, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-1")
	require.NoError(t, err)

	_, err = svc.SessionService.EndBreak(ctx, "user-1")
	assert.ErrorIs(t, err, errors.ErrNotOnBreak)

	clk.Advance(3 * time.Hour)
	entry, err := svc.SessionService.StartBreak(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, entry.IsOnBreak())

	_, err = svc.SessionService.StartBreak(ctx, "user-1")
	assert.ErrorIs(t, err, errors.ErrAlreadyOnBreak)

	clk.Advance(30 * time.Minute)
	entry, err = svc.SessionService.EndBreak(ctx, "user-1")
	require.NoError(t, err)

	assert.False(t, entry.IsOnBreak())
	require.Len(t, entry.Breaks, 1)
	require.NotNil(t, entry.Breaks[0].EndTime)
	assert.Equal(t, 30*time.Minute, entry.Breaks[0].Duration())
}

func TestSessionService_NotClockedIn(t *testing.T) {
	svc, _ := setupDefaultServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"clock out", func() error { _, err := svc.SessionService.ClockOut(ctx, "user-1"); return err }},
		{"start break", func() error { _, err := svc.SessionService.StartBreak(ctx, "user-1"); return err }},
		{"end break", func() error { _, err := svc.SessionService.EndBreak(ctx, "user-1"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), errors.ErrNotClockedIn)
		})
	}
}

func TestSessionService_ClockOut(t *testing.T) {
	svc, clk := setupDefaultServices(t)
	ctx := context.Background()

	_, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-1")
	require.NoError(t, err)

	clk.Advance(8 * time.Hour)
	result, err := svc.SessionService.ClockOut(ctx, "user-1")
	require.NoError(t, err)

	require.NotNil(t, result.Entry.ClockOutTime)
	assert.True(t, result.Entry.ClockOutTime.Equal(shiftStart.Add(8*time.Hour)))
	assert.False(t, result.Entry.NeedsReview)
	assert.Nil(t, result.Warning)

	_, err = svc.SessionService.ClockOut(ctx, "user-1")
	assert.ErrorIs(t, err, errors.ErrNotClockedIn)
}

func TestSessionService_ClockOutClosesOpenBreak(t *testing.T) {
	svc, clk := setupDefaultServices(t)
	ctx := context.Background()

	_, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-1")
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)
	_, err = svc.SessionService.StartBreak(ctx, "user-1")
	require.NoError(t, err)
	out := clk.Advance(15 * time.Minute)

	result, err := svc.SessionService.ClockOut(ctx, "user-1")
	require.NoError(t, err)

	require.Len(t, result.Entry.Breaks, 1)
	require.NotNil(t, result.Entry.Breaks[0].EndTime)
	assert.True(t, result.Entry.Breaks[0].EndTime.Equal(out))
	assert.Equal(t, domain.StateNotClockedIn, result.Entry.State())
}

func TestSessionService_ClockOutStaleSession(t *testing.T) {
	svc, clk := setupDefaultServices(t)
	ctx := context.Background()

	_, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-1")
	require.NoError(t, err)

	clk.Advance(25 * time.Hour)
	result, err := svc.SessionService.ClockOut(ctx, "user-1")
	require.NoError(t, err)

	assert.True(t, result.Entry.NeedsReview)
	require.NotNil(t, result.Entry.ClockOutTime)
	assert.True(t, result.Entry.ClockOutTime.Equal(shiftStart.Add(25*time.Hour)))
	require.NotNil(t, result.Warning)
	assert.ErrorIs(t, result.Warning, errors.ErrStaleSession)

	status, err := svc.SessionService.GetStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, status.IsClockedIn)
}

func TestSessionService_GetStatus(t *testing.T) {
	svc, clk := setupDefaultServices(t)
	ctx := context.Background()

	status, err := svc.SessionService.GetStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, &Status{State: domain.StateNotClockedIn}, status)

	_, err = svc.SessionService.ClockIn(ctx, "user-1", "evt-1")
	require.NoError(t, err)
	clk.Advance(time.Hour)
	_, err = svc.SessionService.StartBreak(ctx, "user-1")
	require.NoError(t, err)

	first, err := svc.SessionService.GetStatus(ctx, "user-1")
	require.NoError(t, err)
	clk.Advance(10 * time.Hour)
	second, err := svc.SessionService.GetStatus(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, domain.StateOnBreak, second.State)
	assert.True(t, second.IsClockedIn)
	assert.True(t, second.IsOnBreak)
	require.NotNil(t, second.Entry)
	assert.Zero(t, second.Entry.BreakDuration())
}

func TestSessionService_Validation(t *testing.T) {
	svc, _ := setupDefaultServices(t)
	ctx := context.Background()

	_, err := svc.SessionService.ClockIn(ctx, "", "evt-1")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	_, err = svc.SessionService.ClockIn(ctx, "user-1", "  ")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	_, err = svc.SessionService.GetStatus(ctx, "")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestSessionService_AtMostOneActiveEntry(t *testing.T) {
	svc, clk := setupDefaultServices(t)
	ctx := context.Background()

	ops := []func() error{
		func() error { _, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-1"); return err },
		func() error { _, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-2"); return err },
		func() error { _, err := svc.SessionService.StartBreak(ctx, "user-1"); return err },
		func() error { _, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-3"); return err },
		func() error { _, err := svc.SessionService.EndBreak(ctx, "user-1"); return err },
		func() error { _, err := svc.SessionService.ClockOut(ctx, "user-1"); return err },
		func() error { _, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-2"); return err },
		func() error { _, err := svc.SessionService.ClockIn(ctx, "user-1", "evt-1"); return err },
	}

	countActive := func() int {
		active := 0
		for _, event := range []string{"evt-1", "evt-2", "evt-3"} {
			entries, err := svc.TimeService.GetEventTimeEntries(ctx, event, "user-1")
			require.NoError(t, err)
			for _, e := range entries {
				if e.IsClockedIn() {
					active++
				}
			}
		}
		return active
	}

	for _, op := range ops {
		clk.Advance(time.Minute)
		_ = op()
		assert.LessOrEqual(t, countActive(), 1)
	}
	assert.Equal(t, 1, countActive())
}

func TestSessionService_CloseStaleSessions(t *testing.T) {
	svc, clk := setupDefaultServices(t)
	ctx := context.Background()

	_, err := svc.SessionService.ClockIn(ctx, "stale-user", "evt-1")
	require.NoError(t, err)
	clk.Advance(time.Hour)
	_, err = svc.SessionService.StartBreak(ctx, "stale-user")
	require.NoError(t, err)

	clk.Advance(19 * time.Hour)
	_, err = svc.SessionService.ClockIn(ctx, "fresh-user", "evt-1")
	require.NoError(t, err)

	clk.Advance(6 * time.Hour)
	closed, err := svc.SessionService.CloseStaleSessions(ctx)
	require.NoError(t, err)

	require.Len(t, closed, 1)
	entry := closed[0]
	assert.Equal(t, "stale-user", entry.UserID)
	assert.True(t, entry.NeedsReview)
	limit := shiftStart.Add(DefaultMaxSessionDuration)
	require.NotNil(t, entry.ClockOutTime)
	assert.True(t, entry.ClockOutTime.Equal(limit))
	require.Len(t, entry.Breaks, 1)
	require.NotNil(t, entry.Breaks[0].EndTime)
	assert.True(t, entry.Breaks[0].EndTime.Equal(limit))

	status, err := svc.SessionService.GetStatus(ctx, "fresh-user")
	require.NoError(t, err)
	assert.True(t, status.IsClockedIn)

	again, err := svc.SessionService.CloseStaleSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestForceCloseInstant(t *testing.T) {
	late := shiftStart.Add(30 * time.Hour)
	lateEnd := late.Add(time.Hour)

	tests := []struct {
		name     string
		breaks   []domain.BreakPeriod
		expected time.Time
	}{
		{"no breaks", nil, shiftStart.Add(24 * time.Hour)},
		{"open break after limit", []domain.BreakPeriod{{StartTime: late}}, late},
		{"closed break after limit", []domain.BreakPeriod{{StartTime: late, EndTime: &lateEnd}}, lateEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := domain.NewTimeEntry("user-1", "evt-1", shiftStart)
			entry.Breaks = tt.breaks
			assert.Equal(t, tt.expected, forceCloseInstant(entry, 24*time.Hour))
		})
	}
}
