package domain

import (
	"time"

	apperrors "github.com/improdutividade/artia/internal/platform/errors"
)

const SchemaVersion = 1

type State string

const (
	StateNoRecord State = "no_record"
	StateOpen     State = "open"
	StateClosed   State = "closed"
)

// Ledger holds one session's records. Only Open may be in progress; History
// is closed and append-only until Reset.
type Ledger struct {
	Identity Identity         `yaml:"identity"`
	History  []ActivityRecord `yaml:"history"`
	Open     *ActivityRecord  `yaml:"open,omitempty"`
}

// Records returns the closed history followed by the open activity, if any.
func (l Ledger) Records() []ActivityRecord {
	out := make([]ActivityRecord, 0, len(l.History)+1)
	out = append(out, l.History...)
	if l.Open != nil {
		out = append(out, *l.Open)
	}
	return out
}

func (l Ledger) Len() int {
	if l.Open != nil {
		return len(l.History) + 1
	}
	return len(l.History)
}

func (l Ledger) State() State {
	switch {
	case l.Open != nil:
		return StateOpen
	case len(l.History) > 0:
		return StateClosed
	default:
		return StateNoRecord
	}
}

// Start opens a new activity stamped at now. end_time mirrors start_time
// until the activity is stopped. An unnamed open activity can never be
// stopped, so a new start replaces it.
func (l *Ledger) Start(name string, now time.Time) (ActivityRecord, error) {
	if l.Open != nil && l.Open.ActivityName != "" {
		return ActivityRecord{}, apperrors.ErrActivityInProgress
	}
	rec := ActivityRecord{
		ID:            RecordID,
		UserName:      l.Identity.UserName,
		ProjectNumber: l.Identity.ProjectNumber,
		ActivityName:  Normalize(name),
		StartedAt:     now,
		EndedAt:       now,
	}
	l.Open = &rec
	return rec, nil
}

// Stop closes the open activity at now and moves it into History.
func (l *Ledger) Stop(now time.Time) (ActivityRecord, error) {
	if l.Len() == 0 {
		return ActivityRecord{}, apperrors.ErrInvalidActivity
	}
	if l.Open == nil {
		return ActivityRecord{}, apperrors.ErrNotStarted
	}
	if l.Open.ActivityName == "" {
		return ActivityRecord{}, apperrors.ErrInvalidActivity
	}
	if l.Open.StartedAt.IsZero() {
		return ActivityRecord{}, apperrors.ErrNotStarted
	}
	rec := *l.Open
	rec.EndedAt = now
	rec.Duration = now.Sub(rec.StartedAt)
	if rec.Duration < 0 {
		rec.Duration = 0
	}
	rec.Closed = true
	l.History = append(l.History, rec)
	l.Open = nil
	return rec, nil
}

// Reset drops every record but keeps the identity.
func (l *Ledger) Reset() {
	l.History = []ActivityRecord{}
	l.Open = nil
}

type Session struct {
	SchemaVersion int       `yaml:"schema_version"`
	ID            string    `yaml:"id"`
	FilePath      string    `yaml:"file_path"`
	CreatedAt     time.Time `yaml:"created_at"`
	Ledger        Ledger    `yaml:"ledger"`
}

type ExportEntry struct {
	SessionID  string
	Path       string
	Rows       int
	ExportedAt time.Time
}
