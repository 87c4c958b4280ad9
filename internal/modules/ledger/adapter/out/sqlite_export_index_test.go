package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ledgerout "github.com/improdutividade/artia/internal/modules/ledger/adapter/out"
	"github.com/improdutividade/artia/internal/modules/ledger/domain"
)

func TestSQLiteExportIndexRecordsAndFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	idx, err := ledgerout.NewSQLiteExportIndex(filepath.Join(t.TempDir(), "db", "artia.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	at := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	require.NoError(t, idx.Record(ctx, domain.ExportEntry{SessionID: "a", Path: "/x/a.xlsx", Rows: 2, ExportedAt: at}))
	require.NoError(t, idx.Record(ctx, domain.ExportEntry{SessionID: "b", Path: "/x/b.xlsx", Rows: 1, ExportedAt: at.Add(time.Minute)}))
	require.NoError(t, idx.Record(ctx, domain.ExportEntry{SessionID: "a", Path: "/x/a.xlsx", Rows: 3, ExportedAt: at.Add(2 * time.Minute)}))

	all, err := idx.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	onlyA, err := idx.List(ctx, "a")
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	require.Equal(t, 2, onlyA[0].Rows)
	require.Equal(t, 3, onlyA[1].Rows)
	require.True(t, onlyA[0].ExportedAt.Equal(at))

	none, err := idx.List(ctx, "zzz")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSQLiteExportIndexReopensExistingDB(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "artia.db")
	first, err := ledgerout.NewSQLiteExportIndex(path)
	require.NoError(t, err)
	require.NoError(t, first.Record(ctx, domain.ExportEntry{SessionID: "a", Path: "p", Rows: 1, ExportedAt: time.Now()}))
	require.NoError(t, first.Close())

	second, err := ledgerout.NewSQLiteExportIndex(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	entries, err := second.List(ctx, "a")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
