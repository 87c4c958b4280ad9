package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/improdutividade/artia/internal/modules/ledger/domain"

	_ "modernc.org/sqlite"
)

// SQLiteExportIndex records every successful export.
type SQLiteExportIndex struct {
	db *sql.DB
}

func NewSQLiteExportIndex(dbPath string) (*SQLiteExportIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	idx := &SQLiteExportIndex{db: db}
	if err := idx.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

func (i *SQLiteExportIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS exports (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id TEXT NOT NULL,
  path TEXT NOT NULL,
  row_count INTEGER NOT NULL,
  exported_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exports_session ON exports(session_id, exported_at);
`
	if _, err := i.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create exports table: %w", err)
	}
	return nil
}

func (i *SQLiteExportIndex) Record(ctx context.Context, entry domain.ExportEntry) error {
	const stmt = `
INSERT INTO exports (session_id, path, row_count, exported_at)
VALUES (?, ?, ?, ?);
`
	if _, err := i.db.ExecContext(ctx, stmt, entry.SessionID, entry.Path, entry.Rows, entry.ExportedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// List returns exports oldest first; an empty sessionID lists every session.
func (i *SQLiteExportIndex) List(ctx context.Context, sessionID string) ([]domain.ExportEntry, error) {
	rows, err := i.db.QueryContext(ctx, `
SELECT session_id, path, row_count, exported_at
FROM exports
WHERE (? = '' OR session_id = ?)
ORDER BY id ASC;
`, sessionID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ExportEntry, 0)
	for rows.Next() {
		entry := domain.ExportEntry{}
		var exportedAt string
		if err := rows.Scan(&entry.SessionID, &entry.Path, &entry.Rows, &exportedAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, exportedAt)
		if err != nil {
			return nil, fmt.Errorf("parse export time: %w", err)
		}
		entry.ExportedAt = ts
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return out, nil
}

func (i *SQLiteExportIndex) Close() error {
	return i.db.Close()
}
