package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/improdutividade/artia/internal/platform/errors"
)

func execute(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(append([]string{"--data-dir", dataDir, "--log-level", "disabled"}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	out, err := execute(t, dataDir, args...)
	if err != nil {
		t.Fatalf("artia %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestLedgerLifecycleAcrossInvocations(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, dir, "session", "new", "--user", "ana", "--project", "p-42")
	if !strings.Contains(out, "session ") || !strings.Contains(out, "registros_atividades_") {
		t.Fatalf("unexpected session new output: %s", out)
	}

	out = mustExecute(t, dir, "activity", "start", "code", "review")
	if !strings.Contains(out, "activity 'CODE REVIEW' started for user ANA") {
		t.Fatalf("unexpected start output: %s", out)
	}

	if _, err := execute(t, dir, "activity", "start", "other"); !errors.Is(err, apperrors.ErrActivityInProgress) {
		t.Fatalf("expected ErrActivityInProgress, got %v", err)
	}

	out = mustExecute(t, dir, "activity", "stop")
	if !strings.Contains(out, "activity 'CODE REVIEW' stopped at") {
		t.Fatalf("unexpected stop output: %s", out)
	}

	out = mustExecute(t, dir, "session", "show")
	if !strings.Contains(out, "state: closed") || !strings.Contains(out, "CODE REVIEW") {
		t.Fatalf("unexpected show output: %s", out)
	}

	out = mustExecute(t, dir, "export")
	if !strings.Contains(out, "1 record(s) saved to") {
		t.Fatalf("unexpected export output: %s", out)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "registros_atividades_*.xlsx"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one session spreadsheet, got %v (%v)", matches, err)
	}
	out = mustExecute(t, dir, "inspect", matches[0])
	if !strings.Contains(out, "ANA\tP-42\tCODE REVIEW") {
		t.Fatalf("unexpected inspect output: %s", out)
	}

	out = mustExecute(t, dir, "exports")
	if !strings.Contains(out, "rows=1") {
		t.Fatalf("unexpected exports output: %s", out)
	}

	out = mustExecute(t, dir, "reset")
	if !strings.Contains(out, "records cleared") {
		t.Fatalf("unexpected reset output: %s", out)
	}
	if _, err := execute(t, dir, "export"); !errors.Is(err, apperrors.ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}

	out = mustExecute(t, dir, "session", "list")
	if strings.Count(strings.TrimSpace(out), "\n") != 0 || !strings.Contains(out, "records=0") {
		t.Fatalf("unexpected session list: %s", out)
	}
}

func TestCommandsWithoutSessionFail(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "activity", "stop")
	if !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	out := mustExecute(t, dir, "session", "list")
	if strings.TrimSpace(out) != "no sessions" {
		t.Fatalf("unexpected list output: %s", out)
	}
}

func TestStopOnEmptySessionIsInvalidActivity(t *testing.T) {
	dir := t.TempDir()
	mustExecute(t, dir, "session", "new", "--user", "ana", "--project", "1")
	_, err := execute(t, dir, "activity", "stop")
	if !errors.Is(err, apperrors.ErrInvalidActivity) {
		t.Fatalf("expected ErrInvalidActivity, got %v", err)
	}
}

func TestReportErrorExitCodes(t *testing.T) {
	buf := &bytes.Buffer{}
	if code := reportError(buf, apperrors.ErrNothingToExport); code != exitRejected {
		t.Fatalf("expected rejected exit code, got %d", code)
	}
	if !strings.Contains(buf.String(), "warning: nothing to export") {
		t.Fatalf("unexpected warning output: %q", buf.String())
	}
	buf.Reset()
	if code := reportError(buf, os.ErrPermission); code != exitFailure {
		t.Fatalf("expected failure exit code, got %d", code)
	}
	if !strings.HasPrefix(buf.String(), "error: ") {
		t.Fatalf("unexpected error output: %q", buf.String())
	}
}
