package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/improdutividade/artia/internal/modules/ledger/domain"
	ledgerout "github.com/improdutividade/artia/internal/modules/ledger/port/out"
	"github.com/improdutividade/artia/internal/platform/clock"
	apperrors "github.com/improdutividade/artia/internal/platform/errors"
	"github.com/improdutividade/artia/internal/platform/id"
)

type LedgerService struct {
	clock   clock.Clock
	idGen   id.Generator
	sink    ledgerout.SpreadsheetSink
	loc     *time.Location
	dataDir string
}

func NewLedgerService(clock clock.Clock, idGen id.Generator, sink ledgerout.SpreadsheetSink, loc *time.Location, dataDir string) *LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerService{clock: clock, idGen: idGen, sink: sink, loc: loc, dataDir: dataDir}
}

// Now is the clock reading in the ledger's civil zone, truncated to the
// second so stored stamps and their HH:MM:SS form agree.
func (s *LedgerService) Now() time.Time {
	return s.clock.Now().In(s.loc).Truncate(time.Second)
}

// NewSession creates a session and seeds its spreadsheet with the header row.
func (s *LedgerService) NewSession(ctx context.Context, identity domain.Identity) (domain.Session, error) {
	sessionID := s.idGen.New()
	if sessionID == "" {
		return domain.Session{}, fmt.Errorf("session id generator returned empty id")
	}
	session := domain.Session{
		SchemaVersion: domain.SchemaVersion,
		ID:            sessionID,
		FilePath:      filepath.Join(s.dataDir, domain.FileName(sessionID)),
		CreatedAt:     s.Now(),
		Ledger:        domain.Ledger{Identity: identity, History: []domain.ActivityRecord{}},
	}
	if err := s.sink.Seed(ctx, session.FilePath); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (s *LedgerService) Start(ledger *domain.Ledger, activityName string) (domain.ActivityRecord, error) {
	return ledger.Start(activityName, s.Now())
}

func (s *LedgerService) Stop(ledger *domain.Ledger) (domain.ActivityRecord, error) {
	return ledger.Stop(s.Now())
}

// Export writes every record, the open one included, to path.
func (s *LedgerService) Export(ctx context.Context, session domain.Session, path string) ([]byte, int, error) {
	records := session.Ledger.Records()
	if len(records) == 0 {
		return nil, 0, apperrors.ErrNothingToExport
	}
	if path == "" {
		path = session.FilePath
	}
	rows := make([]domain.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Row())
	}
	content, err := s.sink.Write(ctx, path, rows)
	if err != nil {
		return nil, 0, err
	}
	return content, len(rows), nil
}

func (s *LedgerService) Read(ctx context.Context, path string) ([]domain.Row, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", apperrors.ErrInvalidInput)
	}
	return s.sink.Read(ctx, path)
}
