package domain

import (
	"fmt"
	"iter"
	"slices"
	"time"
)

// EventKind labels a point on a timeline. The numeric order is the
// tie-break order for events sharing an instant.
type EventKind int

const (
	EventClockIn EventKind = iota
	EventBreakStart
	EventBreakEnd
	EventClockOut
)

var eventKindNames = [...]string{"clock_in", "break_start", "break_end", "clock_out"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(eventKindNames) {
		return nil, fmt.Errorf("unknown event kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name produced by MarshalText.
func (k *EventKind) UnmarshalText(text []byte) error {
	for i, name := range eventKindNames {
		if name == string(text) {
			*k = EventKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// TimelineEvent is a labeled instant taken from a TimeEntry.
type TimelineEvent struct {
	Kind    EventKind `json:"type"`
	Time    time.Time `json:"time"`
	EntryID string    `json:"entryId"`
	EventID string    `json:"eventId"`
}

// Timeline is a chronologically ordered sequence of events.
type Timeline []TimelineEvent

// All yields the events in order.
func (t Timeline) All() iter.Seq[TimelineEvent] {
	return slices.Values(t)
}

// Events yields the entry's clock and break events in recorded order.
// Open breaks and open sessions yield only their start.
func (te TimeEntry) Events() iter.Seq[TimelineEvent] {
	return func(yield func(TimelineEvent) bool) {
		emit := func(kind EventKind, at time.Time) bool {
			return yield(TimelineEvent{Kind: kind, Time: at, EntryID: te.ID, EventID: te.EventID})
		}
		if !emit(EventClockIn, te.ClockInTime) {
			return
		}
		for _, b := range te.Breaks {
			if !emit(EventBreakStart, b.StartTime) {
				return
			}
			if b.EndTime != nil && !emit(EventBreakEnd, *b.EndTime) {
				return
			}
		}
		if te.ClockOutTime != nil {
			emit(EventClockOut, *te.ClockOutTime)
		}
	}
}

// MergeTimeline flattens the events of all entries into one timeline sorted
// by time. Events at the same instant are ordered by kind, then keep their
// input order.
func MergeTimeline(entries []TimeEntry) Timeline {
	var timeline Timeline
	for _, entry := range entries {
		timeline = slices.AppendSeq(timeline, entry.Events())
	}

	slices.SortStableFunc(timeline, compareEvents)
	return timeline
}

func compareEvents(a, b TimelineEvent) int {
	if c := a.Time.Compare(b.Time); c != 0 {
		return c
	}
	return int(a.Kind) - int(b.Kind)
}
