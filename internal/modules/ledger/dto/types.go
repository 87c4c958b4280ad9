package dto

import "time"

type OpenSessionInput struct {
	UserName      string
	ProjectNumber string
}

type IdentityInput struct {
	SessionID     string
	UserName      string
	ProjectNumber string
}

type StartInput struct {
	SessionID    string
	ActivityName string
}

type StopInput struct {
	SessionID string
}

type ExportInput struct {
	SessionID string
	Path      string
}

type ResetInput struct {
	SessionID string
}

type RowOutput struct {
	ID            int
	UserName      string
	ProjectNumber string
	Activity      string
	Date          string
	Start         string
	End           string
	Duration      string
}

type SessionOutput struct {
	SessionID     string
	UserName      string
	ProjectNumber string
	FilePath      string
	State         string
	HasOpen       bool
	Open          RowOutput
	Records       []RowOutput
	Message       string
}

type ActivityOutput struct {
	SessionID string
	Record    RowOutput
	Message   string
}

// ExportOutput doubles as the download artifact: Content is the written
// workbook and Filename a suggested name for it.
type ExportOutput struct {
	SessionID string
	Path      string
	Filename  string
	Content   []byte
	Rows      int
	Message   string
}

type SessionSummary struct {
	SessionID     string
	UserName      string
	ProjectNumber string
	Records       int
	HasOpen       bool
	CreatedAt     time.Time
}

type ExportEntryOutput struct {
	SessionID  string
	Path       string
	Rows       int
	ExportedAt time.Time
}
