package services

import (
	"context"
	"fmt"

	"shift-clock/internal/domain"
	"shift-clock/internal/errors"
	"shift-clock/internal/repository/sqlite"
	"shift-clock/internal/validation"
)

// entryReader loads stored entries as domain values. Every loaded entry is
// checked against the ordering rules of a session before it is handed out.
type entryReader struct {
	repo      sqlite.Repository
	mapper    *domain.Mapper
	validator *validation.SessionValidator
}

func newEntryReader(repo sqlite.Repository) entryReader {
	return entryReader{repo: repo, mapper: domain.NewMapper(), validator: validation.NewSessionValidator()}
}

// decode maps a row to a domain entry. A row that breaks the session
// invariants is reported as a database error naming the entry.
func (r entryReader) decode(row *sqlite.TimeEntry) (*domain.TimeEntry, error) {
	entry := r.mapper.TimeEntry.FromDatabase(*row)
	if err := r.validator.ValidateTimeEntry(entry); err != nil {
		return nil, errors.NewDatabaseError(fmt.Sprintf("load time entry %s", row.ID), err)
	}
	return &entry, nil
}

func (r entryReader) get(ctx context.Context, id string) (*domain.TimeEntry, error) {
	row, err := r.repo.GetTimeEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.decode(row)
}

// active returns the user's open entry. ok is false when there is none.
func (r entryReader) active(ctx context.Context, userID string) (*domain.TimeEntry, bool, error) {
	row, err := r.repo.FindActiveTimeEntry(ctx, userID)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	entry, err := r.decode(row)
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

// mustBeActive is active with a missing entry reported as not clocked in.
func (r entryReader) mustBeActive(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	entry, ok, err := r.active(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewNotClockedInError(userID)
	}
	return entry, nil
}

func (r entryReader) search(ctx context.Context, opts domain.SearchOptions) ([]*domain.TimeEntry, error) {
	rows, err := r.repo.SearchTimeEntries(ctx, r.mapper.SearchOptions.ToDatabase(opts))
	if err != nil {
		return nil, err
	}
	entries := make([]*domain.TimeEntry, len(rows))
	for i, row := range rows {
		entry, err := r.decode(row)
		if err != nil {
			return nil, err
		}
		entries[i] = entry
	}
	return entries, nil
}
