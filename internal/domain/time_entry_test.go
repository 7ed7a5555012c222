package domain

import (
	"encoding/json"
	"testing"
	"time"

	"shift-clock/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestNewTimeEntry(t *testing.T) {
	entry := NewTimeEntry("user-1", "event-1", at(9, 0))

	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "event-1", entry.EventID)
	assert.Equal(t, at(9, 0), entry.ClockInTime)
	assert.Nil(t, entry.ClockOutTime)
	assert.Empty(t, entry.Breaks)
	assert.Equal(t, StateWorking, entry.State())
	assert.True(t, entry.IsClockedIn())
	assert.False(t, entry.IsOnBreak())
}

func TestTimeEntry_State(t *testing.T) {
	tests := []struct {
		name     string
		entry    TimeEntry
		expected SessionState
	}{
		{
			name:     "working without breaks",
			entry:    TimeEntry{ClockInTime: at(9, 0)},
			expected: StateWorking,
		},
		{
			name: "working after closed break",
			entry: TimeEntry{ClockInTime: at(9, 0), Breaks: []BreakPeriod{
				{StartTime: at(10, 0), EndTime: timePtr(at(10, 15))},
			}},
			expected: StateWorking,
		},
		{
			name: "on break when last break is open",
			entry: TimeEntry{ClockInTime: at(9, 0), Breaks: []BreakPeriod{
				{StartTime: at(10, 0), EndTime: timePtr(at(10, 15))},
				{StartTime: at(12, 0)},
			}},
			expected: StateOnBreak,
		},
		{
			name:     "clocked out",
			entry:    TimeEntry{ClockInTime: at(9, 0), ClockOutTime: timePtr(at(17, 0))},
			expected: StateNotClockedIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.State())
			assert.Equal(t, tt.expected == StateOnBreak, tt.entry.IsOnBreak())
			assert.Equal(t, tt.expected != StateNotClockedIn, tt.entry.IsClockedIn())
		})
	}
}

func TestSessionState_String(t *testing.T) {
	assert.Equal(t, "not_clocked_in", StateNotClockedIn.String())
	assert.Equal(t, "working", StateWorking.String())
	assert.Equal(t, "on_break", StateOnBreak.String())
}

func TestTimeEntry_JSON(t *testing.T) {
	entry := NewTimeEntry("user-1", "evt-1", at(9, 0))
	entry.Breaks = []BreakPeriod{{ID: "b1", StartTime: at(10, 0)}}

	data, err := json.Marshal(struct {
		State SessionState `json:"state"`
		Entry TimeEntry    `json:"entry"`
	}{entry.State(), entry})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"state": "on_break",
		"entry": {
			"id": "",
			"userId": "user-1",
			"eventId": "evt-1",
			"clockInTime": "2024-05-06T09:00:00Z",
			"breaks": [{"id": "b1", "startTime": "2024-05-06T10:00:00Z"}],
			"needsReview": false
		}
	}`, string(data))
}

func TestTimeEntry_BreakCycle(t *testing.T) {
	entry := NewTimeEntry("user-1", "event-1", at(9, 0))

	onBreak, err := entry.StartBreak(at(12, 0))
	require.NoError(t, err)
	assert.True(t, onBreak.IsOnBreak())
	assert.Empty(t, entry.Breaks, "original entry must not change")

	working, err := onBreak.EndBreak(at(12, 30))
	require.NoError(t, err)
	assert.False(t, working.IsOnBreak())
	require.Len(t, working.Breaks, 1)
	assert.Equal(t, at(12, 30), *working.Breaks[0].EndTime)
	assert.True(t, onBreak.Breaks[0].IsOpen(), "previous snapshot keeps its open break")
	assert.Equal(t, 30*time.Minute, working.BreakDuration())
}

func TestTimeEntry_StartBreak_Errors(t *testing.T) {
	closed := TimeEntry{UserID: "u", ClockInTime: at(9, 0), ClockOutTime: timePtr(at(17, 0))}
	_, err := closed.StartBreak(at(18, 0))
	assert.ErrorIs(t, err, errors.ErrNotClockedIn)

	onBreak := TimeEntry{UserID: "u", ClockInTime: at(9, 0), Breaks: []BreakPeriod{{StartTime: at(10, 0)}}}
	_, err = onBreak.StartBreak(at(10, 5))
	assert.ErrorIs(t, err, errors.ErrAlreadyOnBreak)

	working := TimeEntry{UserID: "u", ClockInTime: at(9, 0), Breaks: []BreakPeriod{
		{StartTime: at(10, 0), EndTime: timePtr(at(10, 30))},
	}}
	_, err = working.StartBreak(at(8, 0))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	_, err = working.StartBreak(at(10, 15))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestTimeEntry_EndBreak_Errors(t *testing.T) {
	working := NewTimeEntry("u", "e", at(9, 0))
	_, err := working.EndBreak(at(10, 0))
	assert.ErrorIs(t, err, errors.ErrNotOnBreak)

	closed := TimeEntry{UserID: "u", ClockInTime: at(9, 0), ClockOutTime: timePtr(at(17, 0))}
	_, err = closed.EndBreak(at(18, 0))
	assert.ErrorIs(t, err, errors.ErrNotClockedIn)

	onBreak, err := working.StartBreak(at(12, 0))
	require.NoError(t, err)
	_, err = onBreak.EndBreak(at(11, 0))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestTimeEntry_ClockOut(t *testing.T) {
	entry := NewTimeEntry("u", "e", at(9, 0))

	out, err := entry.ClockOut(at(17, 0))
	require.NoError(t, err)
	assert.Equal(t, StateNotClockedIn, out.State())
	assert.Equal(t, at(17, 0), *out.ClockOutTime)

	_, err = out.ClockOut(at(18, 0))
	assert.ErrorIs(t, err, errors.ErrNotClockedIn)

	_, err = entry.ClockOut(at(8, 0))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestTimeEntry_ClockOut_ClosesOpenBreak(t *testing.T) {
	entry := NewTimeEntry("u", "e", at(9, 0))
	onBreak, err := entry.StartBreak(at(16, 30))
	require.NoError(t, err)

	out, err := onBreak.ClockOut(at(17, 0))
	require.NoError(t, err)
	require.Len(t, out.Breaks, 1)
	assert.Equal(t, at(17, 0), *out.Breaks[0].EndTime)
	assert.Equal(t, 30*time.Minute, out.BreakDuration())
	assert.Equal(t, StateNotClockedIn, out.State())
}

func TestTimeEntry_Durations(t *testing.T) {
	entry := TimeEntry{
		UserID:      "u",
		EventID:     "e",
		ClockInTime: at(9, 0),
		Breaks: []BreakPeriod{
			{StartTime: at(12, 0), EndTime: timePtr(at(12, 30))},
			{StartTime: at(15, 0)},
		},
	}

	assert.Equal(t, 7*time.Hour, entry.WorkedDuration(at(16, 0)))
	assert.Equal(t, 30*time.Minute, entry.BreakDuration(), "open break contributes nothing")
	assert.Equal(t, time.Duration(0), entry.WorkedDuration(at(8, 0)), "worked time is floored at zero")
	assert.False(t, entry.IsStale(at(16, 0), 24*time.Hour))
	assert.True(t, entry.IsStale(at(9, 1).Add(24*time.Hour), 24*time.Hour))

	backwards := BreakPeriod{StartTime: at(12, 0), EndTime: timePtr(at(11, 0))}
	assert.Equal(t, time.Duration(0), backwards.Duration())
}
