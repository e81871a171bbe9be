package audit

import (
	"context"
	"errors"
	"fmt"
)

// Logger records login attempts and serves the audit view.
type Logger struct {
	repo Repository
}

// NewLogger constructs a Logger.
func NewLogger(repo Repository) *Logger {
	return &Logger{repo: repo}
}

// Record appends one entry, clipped to the stored column widths. Errors are
// returned to the caller unchanged; nothing is retried.
func (l *Logger) Record(ctx context.Context, entry Entry) (Entry, error) {
	if l == nil || l.repo == nil {
		return Entry{}, errors.New("audit: logger not initialised")
	}
	if entry.Outcome != OutcomeSuccess && entry.Outcome != OutcomeFailure {
		return Entry{}, fmt.Errorf("audit: invalid outcome %q", entry.Outcome)
	}
	if entry.Message == "" {
		return Entry{}, errors.New("audit: message required")
	}
	return l.repo.Insert(ctx, entry.Bounded())
}

// List returns all entries newest first.
func (l *Logger) List(ctx context.Context) ([]Entry, error) {
	if l == nil || l.repo == nil {
		return nil, errors.New("audit: logger not initialised")
	}
	return l.repo.ListNewestFirst(ctx)
}
