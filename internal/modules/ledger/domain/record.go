package domain

import (
	"fmt"
	"strings"
	"time"
)

// RecordID is the fixed row id; the ledger tracks a single user.
const RecordID = 1

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Columns is the spreadsheet header, in write order.
var Columns = []string{"ID", "Nome_Usuário", "Numero_Projeto", "Atividade", "Data", "Início", "Fim", "Duração"}

type Identity struct {
	UserName      string `yaml:"user_name"`
	ProjectNumber string `yaml:"project_number"`
}

// NewIdentity normalizes free-text identity fields.
func NewIdentity(userName, projectNumber string) Identity {
	return Identity{UserName: Normalize(userName), ProjectNumber: Normalize(projectNumber)}
}

// Normalize trims and upper-cases user supplied text.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

type ActivityRecord struct {
	ID            int           `yaml:"id"`
	UserName      string        `yaml:"user_name"`
	ProjectNumber string        `yaml:"project_number"`
	ActivityName  string        `yaml:"activity_name"`
	StartedAt     time.Time     `yaml:"started_at"`
	EndedAt       time.Time     `yaml:"ended_at"`
	Duration      time.Duration `yaml:"duration"`
	Closed        bool          `yaml:"closed"`
}

// Row is the textual form of a record as stored in the spreadsheet.
type Row struct {
	ID            int
	UserName      string
	ProjectNumber string
	Activity      string
	Date          string
	Start         string
	End           string
	Duration      string
}

func (r ActivityRecord) Row() Row {
	row := Row{
		ID:            r.ID,
		UserName:      r.UserName,
		ProjectNumber: r.ProjectNumber,
		Activity:      r.ActivityName,
		Date:          r.StartedAt.Format(DateLayout),
		Start:         r.StartedAt.Format(TimeLayout),
		End:           r.EndedAt.Format(TimeLayout),
	}
	if r.Closed {
		row.Duration = FormatDuration(r.Duration)
	}
	return row
}

// Values returns the row cells in Columns order.
func (r Row) Values() []any {
	return []any{r.ID, r.UserName, r.ProjectNumber, r.Activity, r.Date, r.Start, r.End, r.Duration}
}

// FormatDuration renders d as HH:MM:SS; hours are not wrapped at 24.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FileName is the per-session spreadsheet name.
func FileName(sessionID string) string {
	return "registros_atividades_" + sessionID + ".xlsx"
}
