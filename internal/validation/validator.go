package validation

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// DateLayout is the accepted format for calendar dates.
const DateLayout = "2006-01-02"

// MaxIdentifierLength bounds user and event identifiers.
const MaxIdentifierLength = 128

// Validator provides common validation utilities
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// HasNoControlCharacters rejects newlines, tabs and other control runes.
func (v *Validator) HasNoControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) == -1
}

// IsValidRate checks that an hourly rate is a positive, finite number
func (v *Validator) IsValidRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// IsValidTimeRange checks that end, when present, does not precede start
func (v *Validator) IsValidTimeRange(start time.Time, end *time.Time) bool {
	return end == nil || !end.Before(start)
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc
func (v *Validator) ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}
