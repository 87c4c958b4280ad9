package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/improdutividade/artia/internal/modules/ledger/domain"
	"github.com/improdutividade/artia/internal/modules/ledger/service"
	apperrors "github.com/improdutividade/artia/internal/platform/errors"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type fakeID struct{ value string }

func (f fakeID) New() string { return f.value }

type fakeSink struct {
	seeded  []string
	written map[string][]domain.Row
}

func (f *fakeSink) Seed(_ context.Context, path string) error {
	f.seeded = append(f.seeded, path)
	return nil
}

func (f *fakeSink) Write(_ context.Context, path string, rows []domain.Row) ([]byte, error) {
	if f.written == nil {
		f.written = map[string][]domain.Row{}
	}
	f.written[path] = rows
	return []byte("xlsx"), nil
}

func (f *fakeSink) Read(_ context.Context, path string) ([]domain.Row, error) {
	return f.written[path], nil
}

func TestNewSessionSeedsFileAndUsesZone(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 5, 4, 1, 30, 0, 999, time.UTC)}}
	sink := &fakeSink{}
	loc := time.FixedZone("UTC-3", -3*60*60)
	svc := service.NewLedgerService(clk, fakeID{value: "sess-1"}, sink, loc, "/data")

	session, err := svc.NewSession(context.Background(), domain.NewIdentity("ana", "p1"))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if session.FilePath != filepath.Join("/data", "registros_atividades_sess-1.xlsx") {
		t.Fatalf("unexpected path %s", session.FilePath)
	}
	if len(sink.seeded) != 1 || sink.seeded[0] != session.FilePath {
		t.Fatalf("expected file to be seeded, got %v", sink.seeded)
	}
	if session.CreatedAt.Format("2006-01-02 15:04:05.000") != "2026-05-03 22:30:00.000" {
		t.Fatalf("expected UTC-3 truncated stamp, got %s", session.CreatedAt)
	}
}

func TestNewSessionRejectsEmptyID(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{time.Now()}}
	svc := service.NewLedgerService(clk, fakeID{}, &fakeSink{}, nil, t.TempDir())
	if _, err := svc.NewSession(context.Background(), domain.Identity{}); err == nil {
		t.Fatalf("empty id should fail")
	}
}

func TestExportWritesAllRecordsIncludingOpen(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{base, base, base.Add(10 * time.Minute), base.Add(11 * time.Minute)}}
	sink := &fakeSink{}
	svc := service.NewLedgerService(clk, fakeID{value: "s"}, sink, time.UTC, "/data")
	session, _ := svc.NewSession(context.Background(), domain.NewIdentity("ana", "p1"))

	if _, _, err := svc.Export(context.Background(), session, ""); !errors.Is(err, apperrors.ErrNothingToExport) {
		t.Fatalf("expected nothing to export, got %v", err)
	}
	if len(sink.written) != 0 {
		t.Fatalf("empty export must not write")
	}

	_, _ = svc.Start(&session.Ledger, "a")
	_, _ = svc.Stop(&session.Ledger)
	_, _ = svc.Start(&session.Ledger, "b")
	_, rows, err := svc.Export(context.Background(), session, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	written := sink.written[session.FilePath]
	if rows != 2 || len(written) != 2 {
		t.Fatalf("expected 2 rows, got %d/%d", rows, len(written))
	}
	if written[0].Duration != "00:10:00" || written[1].Duration != "" {
		t.Fatalf("unexpected durations: %+v", written)
	}
}

func TestReadRequiresPath(t *testing.T) {
	t.Parallel()
	svc := service.NewLedgerService(&fakeClock{values: []time.Time{time.Now()}}, fakeID{value: "s"}, &fakeSink{}, time.UTC, "")
	if _, err := svc.Read(context.Background(), ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
