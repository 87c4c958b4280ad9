package out

import (
	"context"

	"github.com/improdutividade/artia/internal/modules/ledger/domain"
)

// SessionStore owns per-session ledger state between operations.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Load(ctx context.Context, sessionID string) (domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
	SetCurrent(ctx context.Context, sessionID string) error
	Current(ctx context.Context) (string, error)
}

// SpreadsheetSink writes and re-reads the fixed-schema workbook.
type SpreadsheetSink interface {
	Seed(ctx context.Context, path string) error
	Write(ctx context.Context, path string, rows []domain.Row) ([]byte, error)
	Read(ctx context.Context, path string) ([]domain.Row, error)
}

type ExportIndex interface {
	Record(ctx context.Context, entry domain.ExportEntry) error
	List(ctx context.Context, sessionID string) ([]domain.ExportEntry, error)
}
