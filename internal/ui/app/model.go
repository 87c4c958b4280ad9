package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/improdutividade/artia/internal/modules/ledger/dto"
	apperrors "github.com/improdutividade/artia/internal/platform/errors"
	"github.com/improdutividade/artia/internal/ui/components"
	"github.com/improdutividade/artia/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type ledgerPort interface {
	OpenSession(ctx context.Context, userName, projectNumber string) (dto.SessionOutput, error)
	SetIdentity(ctx context.Context, sessionID, userName, projectNumber string) (dto.SessionOutput, error)
	Start(ctx context.Context, sessionID, activityName string) (dto.ActivityOutput, error)
	Stop(ctx context.Context, sessionID string) (dto.ActivityOutput, error)
	Export(ctx context.Context, sessionID, path string) (dto.ExportOutput, error)
	Reset(ctx context.Context, sessionID string) (dto.SessionOutput, error)
	Status(ctx context.Context, sessionID string) (dto.SessionOutput, error)
}

// ─── form fields ─────────────────────────────────────────────────────────────

type fieldID int

const (
	fieldName fieldID = iota
	fieldProject
	fieldActivity
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Project", "Activity"}

// ─── notices ─────────────────────────────────────────────────────────────────

type noticeLevel int

const (
	levelInfo noticeLevel = iota
	levelSuccess
	levelWarning
	levelError
)

type notice struct {
	level noticeLevel
	text  string
}

func (n notice) render() string {
	switch n.level {
	case levelSuccess:
		return theme.Success.Render("✔ " + n.text)
	case levelWarning:
		return theme.Warning.Render("! " + n.text)
	case levelError:
		return theme.Error.Render("✘ " + n.text)
	default:
		return theme.Muted.Render(n.text)
	}
}

// ─── async messages ──────────────────────────────────────────────────────────

// opResultMsg carries the outcome of one ledger operation plus the session
// state read back after it. sessionID is set on failures that happen after a
// session was resolved or opened.
type opResultMsg struct {
	op        string
	message   string
	session   dto.SessionOutput
	sessionID string
	err       error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Start   key.Binding
	Stop    key.Binding
	Export  key.Binding
	Reset   key.Binding
	New     key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Stop:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "stop")),
		Export:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export")),
		Reset:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		New:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new session")),
		Palette: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Export, k.Reset, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.New},
		{k.Start, k.Stop, k.Export, k.Reset},
		{k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the ledger form: identity and activity inputs, the record table
// and a status line. Every operation goes through ledgerPort.
type Model struct {
	ledger    ledgerPort
	log       zerolog.Logger
	sessionID string

	inputs  [fieldCount]textinput.Model
	focus   fieldID
	records table.Model
	session dto.SessionOutput
	busy    bool

	keys    keyMap
	help    help.Model
	palette components.Palette
	notice  notice
	width   int
	height  int
}

func NewModel(ledger ledgerPort, sessionID string, log zerolog.Logger) Model {
	m := Model{
		ledger:    ledger,
		log:       log,
		sessionID: sessionID,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		notice:    notice{level: levelInfo, text: "ready"},
	}
	placeholders := [fieldCount]string{"your name", "project number", "activity in progress"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 128
		ti.Prompt = ""
		m.inputs[i] = ti
	}
	m.inputs[fieldName].Focus()
	m.records = table.New(
		table.WithColumns(recordColumns()),
		table.WithHeight(8),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Sapphire).Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Peach)
	m.records.SetStyles(styles)
	return m
}

func recordColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 3},
		{Title: "Name", Width: 14},
		{Title: "Project", Width: 10},
		{Title: "Activity", Width: 18},
		{Title: "Date", Width: 10},
		{Title: "Start", Width: 8},
		{Title: "End", Width: 8},
		{Title: "Duration", Width: 8},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCmd())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 72))
		m.help.Width = m.width
		return m, nil

	case opResultMsg:
		return m.applyResult(msg), nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.notice = notice{level: levelInfo, text: "ready"}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case key.Matches(msg, m.keys.Start):
			if m.focus != fieldActivity {
				return m, m.setFocus(m.focus + 1)
			}
			return m.run(m.startCmd(m.value(fieldName), m.value(fieldProject), m.value(fieldActivity)))
		case key.Matches(msg, m.keys.Stop):
			return m.run(m.stopCmd())
		case key.Matches(msg, m.keys.Export):
			return m.run(m.exportCmd(""))
		case key.Matches(msg, m.keys.Reset):
			return m.run(m.resetCmd())
		case key.Matches(msg, m.keys.New):
			return m.run(m.openCmd(m.value(fieldName), m.value(fieldProject)))
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) applyResult(msg opResultMsg) Model {
	m.busy = false
	if msg.err != nil {
		if msg.sessionID != "" {
			m.sessionID = msg.sessionID
		}
		m.notice = classify(msg.op, msg.err)
		m.log.Debug().Err(msg.err).Str("operation", msg.op).Msg("tui operation rejected")
		return m
	}
	m.session = msg.session
	m.sessionID = msg.session.SessionID
	m.records.SetRows(recordRows(msg.session.Records))
	if n := len(msg.session.Records); n > 0 {
		m.records.SetCursor(n - 1)
	}
	if msg.op == "load" {
		m.inputs[fieldName].SetValue(msg.session.UserName)
		m.inputs[fieldProject].SetValue(msg.session.ProjectNumber)
	}
	if msg.op == "start" {
		m.inputs[fieldActivity].SetValue("")
	}
	if msg.message != "" {
		m.notice = notice{level: levelSuccess, text: msg.message}
	} else {
		m.notice = notice{level: levelInfo, text: "session " + shortID(msg.session.SessionID) + " loaded"}
	}
	return m
}

func (m Model) run(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	return m, cmd
}

// classify maps ledger errors onto notice levels: rule violations are
// warnings, everything else is an error.
func classify(op string, err error) notice {
	switch {
	case op == "load" && errors.Is(err, apperrors.ErrSessionNotFound):
		return notice{level: levelInfo, text: "no session yet: fill name and project, then start an activity"}
	case errors.Is(err, apperrors.ErrInvalidActivity):
		return notice{level: levelError, text: "invalid activity"}
	case errors.Is(err, apperrors.ErrNotStarted):
		return notice{level: levelError, text: "activity not started yet"}
	case errors.Is(err, apperrors.ErrNothingToExport):
		return notice{level: levelWarning, text: "no data available for export"}
	case errors.Is(err, apperrors.ErrActivityInProgress):
		return notice{level: levelWarning, text: "stop the current activity before starting another"}
	default:
		return notice{level: levelError, text: op + ": " + err.Error()}
	}
}

func (m *Model) setFocus(f fieldID) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = f
	return m.inputs[m.focus].Focus()
}

func (m Model) value(f fieldID) string {
	return strings.TrimSpace(m.inputs[f].Value())
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	body := lipgloss.JoinVertical(lipgloss.Left, m.renderForm(), m.records.View())
	if m.palette.Visible() {
		body = lipgloss.Place(max(m.width, 40), lipgloss.Height(body),
			lipgloss.Center, lipgloss.Center, m.palette.View())
	}
	footer := m.notice.render() + "\n" + m.help.View(m.keys)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	title := theme.Title.Render("artia")
	if m.sessionID == "" {
		return title + "  " + theme.Muted.Render("no session") + "\n"
	}
	state := theme.Muted.Render(m.session.State)
	if m.session.HasOpen {
		state = theme.Hot.Render("● " + m.session.Open.Activity + " since " + m.session.Open.Start)
	}
	return title + "  " + theme.Muted.Render("session "+shortID(m.sessionID)) + "  " + state + "\n"
}

func (m Model) renderForm() string {
	var sb strings.Builder
	for i := fieldID(0); i < fieldCount; i++ {
		label := fmt.Sprintf("%-9s", fieldLabels[i])
		if i == m.focus {
			label = theme.Hot.Render(label)
		} else {
			label = theme.Muted.Render(label)
		}
		sb.WriteString(label + " " + m.inputs[i].View())
		if i < fieldCount-1 {
			sb.WriteString("\n")
		}
	}
	return theme.PaneActive.Render(sb.String())
}

func recordRows(records []dto.RowOutput) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			fmt.Sprint(r.ID), r.UserName, r.ProjectNumber, r.Activity, r.Date, r.Start, r.End, r.Duration,
		})
	}
	return rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "session:new":
		return m.run(m.openCmd(m.value(fieldName), m.value(fieldProject)))
	case "session:identity":
		if m.sessionID == "" {
			m.notice = notice{level: levelWarning, text: "no session to update"}
			return m, nil
		}
		return m.run(m.identityCmd(m.value(fieldName), m.value(fieldProject)))
	case "activity:start":
		name := rest
		if name == "" {
			name = m.value(fieldActivity)
		}
		return m.run(m.startCmd(m.value(fieldName), m.value(fieldProject), name))
	case "activity:stop":
		return m.run(m.stopCmd())
	case "export":
		return m.run(m.exportCmd(rest))
	case "reset":
		return m.run(m.resetCmd())
	case "refresh":
		return m.run(m.loadCmd())
	default:
		m.notice = notice{level: levelWarning, text: "unknown command: " + parts[0]}
	}
	return m, nil
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) loadCmd() tea.Cmd {
	sessionID := m.sessionID
	return func() tea.Msg {
		out, err := m.ledger.Status(context.Background(), sessionID)
		return opResultMsg{op: "load", session: out, err: err}
	}
}

func (m Model) openCmd(user, project string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.ledger.OpenSession(context.Background(), user, project)
		return opResultMsg{op: "open", message: out.Message, session: out, err: err}
	}
}

func (m Model) identityCmd(user, project string) tea.Cmd {
	sessionID := m.sessionID
	return func() tea.Msg {
		out, err := m.ledger.SetIdentity(context.Background(), sessionID, user, project)
		return opResultMsg{op: "identity", message: out.Message, session: out, err: err}
	}
}

// startCmd opens a session on first use and applies the form identity before
// starting, so the record carries whatever name and project are typed. The
// identity is left alone when a named activity is still open.
func (m Model) startCmd(user, project, activity string) tea.Cmd {
	sessionID := m.sessionID
	return func() tea.Msg {
		ctx := context.Background()
		if sessionID == "" {
			out, err := m.ledger.OpenSession(ctx, user, project)
			if err != nil {
				return opResultMsg{op: "start", err: err}
			}
			sessionID = out.SessionID
		} else {
			current, err := m.ledger.Status(ctx, sessionID)
			if err != nil {
				return opResultMsg{op: "start", sessionID: sessionID, err: err}
			}
			if current.HasOpen && current.Open.Activity != "" {
				return opResultMsg{op: "start", sessionID: sessionID, err: apperrors.ErrActivityInProgress}
			}
			if _, err := m.ledger.SetIdentity(ctx, sessionID, user, project); err != nil {
				return opResultMsg{op: "start", sessionID: sessionID, err: err}
			}
		}
		out, err := m.ledger.Start(ctx, sessionID, activity)
		return m.finish(ctx, "start", sessionID, out.Message, err)
	}
}

func (m Model) stopCmd() tea.Cmd {
	sessionID := m.sessionID
	return func() tea.Msg {
		ctx := context.Background()
		out, err := m.ledger.Stop(ctx, sessionID)
		return m.finish(ctx, "stop", sessionID, out.Message, err)
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	sessionID := m.sessionID
	return func() tea.Msg {
		ctx := context.Background()
		out, err := m.ledger.Export(ctx, sessionID, path)
		return m.finish(ctx, "export", sessionID, out.Message, err)
	}
}

func (m Model) resetCmd() tea.Cmd {
	sessionID := m.sessionID
	return func() tea.Msg {
		out, err := m.ledger.Reset(context.Background(), sessionID)
		return opResultMsg{op: "reset", message: out.Message, session: out, err: err}
	}
}

func (m Model) finish(ctx context.Context, op, sessionID, message string, err error) tea.Msg {
	if err != nil {
		return opResultMsg{op: op, sessionID: sessionID, err: err}
	}
	session, err := m.ledger.Status(ctx, sessionID)
	return opResultMsg{op: op, message: message, session: session, err: err}
}
