package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/improdutividade/artia/internal/modules/ledger/domain"
	ledgerout "github.com/improdutividade/artia/internal/modules/ledger/port/out"
	apperrors "github.com/improdutividade/artia/internal/platform/errors"
)

const defaultSheet = "Sheet1"

// XLSXSink renders rows into a single-sheet workbook and mirrors it to disk.
type XLSXSink struct {
	sheet string
}

func NewXLSXSink(sheet string) ledgerout.SpreadsheetSink {
	if sheet == "" {
		sheet = "Registros"
	}
	return &XLSXSink{sheet: sheet}
}

// Seed writes a header-only workbook unless path already exists.
func (s *XLSXSink) Seed(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	_, err := s.Write(ctx, path, nil)
	return err
}

// Write replaces the file at path with the header plus rows and returns the
// workbook bytes.
func (s *XLSXSink) Write(_ context.Context, path string, rows []domain.Row) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty spreadsheet path", apperrors.ErrInvalidInput)
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, s.sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	header := make([]any, 0, len(domain.Columns))
	for _, col := range domain.Columns {
		header = append(header, col)
	}
	if err := f.SetSheetRow(s.sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(domain.Columns), 1)
	if err != nil {
		return nil, fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(s.sheet, "A1", last, style); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		values := row.Values()
		if err := f.SetSheetRow(s.sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	content := buf.Bytes()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return content, nil
}

// Read parses a workbook written by Write. The configured sheet is preferred;
// otherwise the first sheet is used.
func (s *XLSXSink) Read(_ context.Context, path string) ([]domain.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrInvalidInput)
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if name == s.sheet {
			sheet = name
			break
		}
	}
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(cells) == 0 || !headerMatches(cells[0]) {
		return nil, fmt.Errorf("%w: unexpected header in sheet %s", apperrors.ErrInvalidInput, sheet)
	}

	out := make([]domain.Row, 0, len(cells)-1)
	for i, raw := range cells[1:] {
		cols := padRow(raw)
		id, err := strconv.Atoi(cols[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d id %q", apperrors.ErrInvalidInput, i+1, cols[0])
		}
		out = append(out, domain.Row{
			ID:            id,
			UserName:      cols[1],
			ProjectNumber: cols[2],
			Activity:      cols[3],
			Date:          cols[4],
			Start:         cols[5],
			End:           cols[6],
			Duration:      cols[7],
		})
	}
	return out, nil
}

func headerMatches(row []string) bool {
	if len(row) != len(domain.Columns) {
		return false
	}
	for i, col := range domain.Columns {
		if row[i] != col {
			return false
		}
	}
	return true
}

// padRow restores trailing empty cells that GetRows drops.
func padRow(raw []string) []string {
	cols := make([]string, len(domain.Columns))
	copy(cols, raw)
	return cols
}
