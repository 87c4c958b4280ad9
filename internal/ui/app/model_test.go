package app

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/improdutividade/artia/internal/modules/ledger/dto"
	apperrors "github.com/improdutividade/artia/internal/platform/errors"
	"github.com/improdutividade/artia/internal/ui/components"
)

type fakeLedger struct {
	session  dto.SessionOutput
	exists   bool
	calls    []string
	startErr error
}

func (f *fakeLedger) OpenSession(_ context.Context, user, project string) (dto.SessionOutput, error) {
	f.calls = append(f.calls, "open")
	f.exists = true
	f.session = dto.SessionOutput{SessionID: "session-1234567890", UserName: strings.ToUpper(user), ProjectNumber: strings.ToUpper(project), State: "no_record"}
	out := f.session
	out.Message = "session opened"
	return out, nil
}

func (f *fakeLedger) SetIdentity(_ context.Context, _ string, user, project string) (dto.SessionOutput, error) {
	f.calls = append(f.calls, "identity")
	f.session.UserName = strings.ToUpper(user)
	f.session.ProjectNumber = strings.ToUpper(project)
	return f.session, nil
}

func (f *fakeLedger) Start(_ context.Context, sessionID, name string) (dto.ActivityOutput, error) {
	f.calls = append(f.calls, "start:"+sessionID)
	if f.startErr != nil {
		return dto.ActivityOutput{}, f.startErr
	}
	row := dto.RowOutput{ID: 1, UserName: f.session.UserName, ProjectNumber: f.session.ProjectNumber, Activity: strings.ToUpper(name), Start: "09:00:00", End: "09:00:00"}
	f.session.Records = append(f.session.Records, row)
	f.session.HasOpen = true
	f.session.Open = row
	f.session.State = "open"
	return dto.ActivityOutput{SessionID: sessionID, Record: row, Message: "activity '" + row.Activity + "' started"}, nil
}

func (f *fakeLedger) Stop(context.Context, string) (dto.ActivityOutput, error) {
	f.calls = append(f.calls, "stop")
	if !f.session.HasOpen {
		return dto.ActivityOutput{}, apperrors.ErrInvalidActivity
	}
	f.session.HasOpen = false
	f.session.State = "closed"
	return dto.ActivityOutput{Message: "stopped"}, nil
}

func (f *fakeLedger) Export(_ context.Context, _ string, path string) (dto.ExportOutput, error) {
	f.calls = append(f.calls, "export:"+path)
	if len(f.session.Records) == 0 {
		return dto.ExportOutput{}, apperrors.ErrNothingToExport
	}
	return dto.ExportOutput{Message: "saved"}, nil
}

func (f *fakeLedger) Reset(context.Context, string) (dto.SessionOutput, error) {
	f.calls = append(f.calls, "reset")
	f.session.Records = nil
	f.session.HasOpen = false
	f.session.State = "no_record"
	out := f.session
	out.Message = "records cleared"
	return out, nil
}

func (f *fakeLedger) Status(context.Context, string) (dto.SessionOutput, error) {
	if !f.exists {
		return dto.SessionOutput{}, apperrors.ErrSessionNotFound
	}
	return f.session, nil
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected command")
	}
	msg, ok := cmd().(opResultMsg)
	if !ok {
		t.Fatalf("expected opResultMsg")
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestLoadWithoutSessionShowsHint(t *testing.T) {
	t.Parallel()
	m := NewModel(&fakeLedger{}, "", zerolog.Nop())
	m = runCmd(t, m, m.loadCmd())
	if m.notice.level != levelInfo || !strings.Contains(m.notice.text, "no session") {
		t.Fatalf("unexpected notice %+v", m.notice)
	}
}

func TestStartOpensSessionFromForm(t *testing.T) {
	t.Parallel()
	fake := &fakeLedger{}
	m := NewModel(fake, "", zerolog.Nop())

	m = typeText(t, m, "ana")
	m, _ = press(t, m, tea.KeyTab)
	m = typeText(t, m, "p-42")
	m, _ = press(t, m, tea.KeyEnter)
	if m.focus != fieldActivity {
		t.Fatalf("enter on project should move to activity, focus=%d", m.focus)
	}
	m = typeText(t, m, "design")

	m, cmd := press(t, m, tea.KeyEnter)
	m = runCmd(t, m, cmd)

	if strings.Join(fake.calls, ",") != "open,start:session-1234567890" {
		t.Fatalf("unexpected calls %v", fake.calls)
	}
	if m.sessionID != "session-1234567890" {
		t.Fatalf("session id not adopted: %q", m.sessionID)
	}
	if m.notice.level != levelSuccess {
		t.Fatalf("expected success notice, got %+v", m.notice)
	}
	if len(m.records.Rows()) != 1 || m.records.Rows()[0][3] != "DESIGN" {
		t.Fatalf("record table not refreshed: %v", m.records.Rows())
	}
	if m.value(fieldActivity) != "" {
		t.Fatalf("activity input should clear after start")
	}
	if !strings.Contains(m.View(), "DESIGN since 09:00:00") {
		t.Fatalf("header should show open activity")
	}
}

func TestStartOnExistingSessionSyncsIdentity(t *testing.T) {
	t.Parallel()
	fake := &fakeLedger{}
	_, _ = fake.OpenSession(context.Background(), "ana", "1")
	fake.calls = nil
	m := NewModel(fake, "", zerolog.Nop())
	m = runCmd(t, m, m.loadCmd())
	if m.value(fieldName) != "ANA" {
		t.Fatalf("load should fill identity inputs, got %q", m.value(fieldName))
	}
	m.inputs[fieldActivity].SetValue("x")
	m = runCmd(t, m, m.startCmd(m.value(fieldName), "2", m.value(fieldActivity)))
	if strings.Join(fake.calls, ",") != "identity,start:session-1234567890" {
		t.Fatalf("unexpected calls %v", fake.calls)
	}
	if m.session.ProjectNumber != "2" {
		t.Fatalf("identity not applied: %+v", m.session)
	}
}

func TestRejectionsBecomeNotices(t *testing.T) {
	t.Parallel()
	fake := &fakeLedger{}
	_, _ = fake.OpenSession(context.Background(), "ana", "1")
	m := NewModel(fake, "session-1234567890", zerolog.Nop())

	m, cmd := press(t, m, tea.KeyCtrlT)
	m = runCmd(t, m, cmd)
	if m.notice.level != levelError || m.notice.text != "invalid activity" {
		t.Fatalf("unexpected stop notice %+v", m.notice)
	}

	m, cmd = press(t, m, tea.KeyCtrlE)
	m = runCmd(t, m, cmd)
	if m.notice.level != levelWarning || m.notice.text != "no data available for export" {
		t.Fatalf("unexpected export notice %+v", m.notice)
	}

	fake.startErr = apperrors.ErrActivityInProgress
	m = runCmd(t, m, m.startCmd("ana", "1", "y"))
	if m.notice.level != levelWarning {
		t.Fatalf("unexpected start notice %+v", m.notice)
	}
}

func TestBusyModelIgnoresSecondOperation(t *testing.T) {
	t.Parallel()
	m := NewModel(&fakeLedger{}, "", zerolog.Nop())
	m, first := press(t, m, tea.KeyCtrlR)
	if first == nil || !m.busy {
		t.Fatalf("expected reset command and busy model")
	}
	_, second := press(t, m, tea.KeyCtrlR)
	if second != nil {
		t.Fatalf("second operation should wait for the first")
	}
}

func TestPaletteCommands(t *testing.T) {
	t.Parallel()
	fake := &fakeLedger{}
	_, _ = fake.OpenSession(context.Background(), "ana", "1")
	fake.calls = nil
	m := NewModel(fake, "session-1234567890", zerolog.Nop())

	next, cmd := m.Update(components.PaletteSubmitMsg{Input: "activity:start code review"})
	m = runCmd(t, next.(Model), cmd)
	if m.session.Open.Activity != "CODE REVIEW" {
		t.Fatalf("palette start used wrong name: %+v", m.session.Open)
	}

	next, cmd = m.Update(components.PaletteSubmitMsg{Input: "export /tmp/out.xlsx"})
	m = runCmd(t, next.(Model), cmd)
	if fake.calls[len(fake.calls)-1] != "export:/tmp/out.xlsx" {
		t.Fatalf("unexpected calls %v", fake.calls)
	}

	next, cmd = m.Update(components.PaletteSubmitMsg{Input: "reset"})
	m = runCmd(t, next.(Model), cmd)
	if len(m.records.Rows()) != 0 {
		t.Fatalf("reset should clear table")
	}

	next, cmd = m.Update(components.PaletteSubmitMsg{Input: "bogus"})
	m = next.(Model)
	if cmd != nil || !strings.HasPrefix(m.notice.text, "unknown command") {
		t.Fatalf("unexpected palette result %+v", m.notice)
	}
}

func TestStartWhileNamedActivityOpenKeepsIdentity(t *testing.T) {
	t.Parallel()
	fake := &fakeLedger{}
	_, _ = fake.OpenSession(context.Background(), "ana", "1")
	_, _ = fake.Start(context.Background(), "session-1234567890", "a")
	fake.calls = nil
	m := NewModel(fake, "session-1234567890", zerolog.Nop())

	m = runCmd(t, m, m.startCmd("bia", "2", "b"))
	if len(fake.calls) != 0 {
		t.Fatalf("rejected start must not touch the ledger, calls %v", fake.calls)
	}
	if fake.session.UserName != "ANA" || fake.session.ProjectNumber != "1" {
		t.Fatalf("identity changed by rejected start: %+v", fake.session)
	}
	if m.notice.level != levelWarning {
		t.Fatalf("expected warning notice, got %+v", m.notice)
	}
}

func TestFailedFirstStartKeepsOpenedSession(t *testing.T) {
	t.Parallel()
	fake := &fakeLedger{startErr: apperrors.ErrInvalidInput}
	m := NewModel(fake, "", zerolog.Nop())

	m = runCmd(t, m, m.startCmd("ana", "1", "x"))
	if m.sessionID != "session-1234567890" {
		t.Fatalf("opened session id should be kept, got %q", m.sessionID)
	}
	if m.notice.level != levelError {
		t.Fatalf("expected error notice, got %+v", m.notice)
	}

	fake.startErr = nil
	fake.calls = nil
	m = runCmd(t, m, m.startCmd("ana", "1", "x"))
	if strings.Join(fake.calls, ",") != "identity,start:session-1234567890" {
		t.Fatalf("second start should reuse the session, calls %v", fake.calls)
	}
}
