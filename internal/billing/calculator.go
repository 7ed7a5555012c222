// Package billing turns time entries into billable hours and line totals.
package billing

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"shift-clock/internal/domain"
)

// Flags mark lines the invoice assembler must treat specially.
type Flags uint8

const (
	// FlagInvalidRate is set when the hourly rate is not positive. The line
	// total is zero and the line must be rejected rather than invoiced.
	FlagInvalidRate Flags = 1 << iota
	// FlagOpenSession is set when the entry has no clock-out yet and the
	// figures are measured up to now.
	FlagOpenSession
	// FlagNeedsReview is set when the session ran past the maximum duration.
	FlagNeedsReview
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagInvalidRate, "invalid_rate"},
	{FlagOpenSession, "open_session"},
	{FlagNeedsReview, "needs_review"},
}

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Names lists the set flags in a fixed order.
func (f Flags) Names() []string {
	names := []string{}
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

func (f Flags) String() string {
	return strings.Join(f.Names(), "|")
}

// MarshalJSON encodes the set flags as a list of names.
func (f Flags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

// Summary is the billable breakdown of a single time entry.
type Summary struct {
	EntryID       string  `json:"entryId"`
	EventID       string  `json:"eventId"`
	UserID        string  `json:"userId"`
	WorkedMinutes int64   `json:"workedMinutes"`
	BreakMinutes  int64   `json:"breakMinutes"`
	BillableHours float64 `json:"billableHours"`
	Rate          float64 `json:"rate"`
	LineTotal     float64 `json:"lineTotal"`
	Flags         Flags   `json:"flags"`
}

// Calculate computes the billable summary of entry at rate. Open sessions are
// measured up to now; open breaks count as zero. Worked time and each closed
// break are floored to whole minutes, and minutes are the only unit used until
// the conversion to hours and to currency.
func Calculate(entry domain.TimeEntry, rate float64, now time.Time) Summary {
	workedMinutes := wholeMinutes(entry.WorkedDuration(now))
	var breakMinutes int64
	for _, b := range entry.Breaks {
		breakMinutes += wholeMinutes(b.Duration())
	}

	summary := Summary{
		EntryID:       entry.ID,
		EventID:       entry.EventID,
		UserID:        entry.UserID,
		WorkedMinutes: workedMinutes,
		BreakMinutes:  breakMinutes,
		BillableHours: Round2(float64(max(0, workedMinutes-breakMinutes)) / 60),
		Rate:          rate,
	}

	if entry.ClockOutTime == nil {
		summary.Flags |= FlagOpenSession
	}
	if entry.NeedsReview {
		summary.Flags |= FlagNeedsReview
	}
	if !(rate > 0) || math.IsInf(rate, 0) {
		summary.Flags |= FlagInvalidRate
		return summary
	}

	summary.LineTotal = Round2(summary.BillableHours * rate)
	return summary
}

func wholeMinutes(d time.Duration) int64 {
	return int64(max(0, d) / time.Minute)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
