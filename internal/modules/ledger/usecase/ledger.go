package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/improdutividade/artia/internal/modules/ledger/domain"
	"github.com/improdutividade/artia/internal/modules/ledger/dto"
	ledgerin "github.com/improdutividade/artia/internal/modules/ledger/port/in"
	ledgerout "github.com/improdutividade/artia/internal/modules/ledger/port/out"
	"github.com/improdutividade/artia/internal/modules/ledger/service"
	apperrors "github.com/improdutividade/artia/internal/platform/errors"
)

type Interactor struct {
	svc      *service.LedgerService
	sessions ledgerout.SessionStore
	exports  ledgerout.ExportIndex
	log      zerolog.Logger
}

// NewInteractor wires the ledger usecase. exports may be nil, in which case
// exports are not indexed.
func NewInteractor(svc *service.LedgerService, sessions ledgerout.SessionStore, exports ledgerout.ExportIndex, log zerolog.Logger) ledgerin.Usecase {
	return &Interactor{svc: svc, sessions: sessions, exports: exports, log: log}
}

func (i *Interactor) OpenSession(ctx context.Context, input dto.OpenSessionInput) (dto.SessionOutput, error) {
	session, err := i.svc.NewSession(ctx, domain.NewIdentity(input.UserName, input.ProjectNumber))
	if err != nil {
		return dto.SessionOutput{}, fmt.Errorf("open session: %w", err)
	}
	if err := i.sessions.Save(ctx, session); err != nil {
		return dto.SessionOutput{}, err
	}
	if err := i.sessions.SetCurrent(ctx, session.ID); err != nil {
		return dto.SessionOutput{}, err
	}
	i.log.Info().Str("session_id", session.ID).Str("file", session.FilePath).Msg("session opened")
	out := sessionOutput(session)
	out.Message = fmt.Sprintf("session %s opened, records go to %s", session.ID, filepath.Base(session.FilePath))
	return out, nil
}

func (i *Interactor) SetIdentity(ctx context.Context, input dto.IdentityInput) (dto.SessionOutput, error) {
	session, err := i.mutate(ctx, input.SessionID, func(s *domain.Session) error {
		s.Ledger.Identity = domain.NewIdentity(input.UserName, input.ProjectNumber)
		return nil
	})
	if err != nil {
		return dto.SessionOutput{}, err
	}
	out := sessionOutput(session)
	out.Message = fmt.Sprintf("identity set to %s / %s", out.UserName, out.ProjectNumber)
	return out, nil
}

func (i *Interactor) StartActivity(ctx context.Context, input dto.StartInput) (dto.ActivityOutput, error) {
	var rec domain.ActivityRecord
	session, err := i.mutate(ctx, input.SessionID, func(s *domain.Session) error {
		var err error
		rec, err = i.svc.Start(&s.Ledger, input.ActivityName)
		return err
	})
	if err != nil {
		i.reject(err, input.SessionID, "start")
		return dto.ActivityOutput{}, err
	}
	i.log.Info().Str("session_id", session.ID).Str("activity", rec.ActivityName).Msg("activity started")
	return dto.ActivityOutput{
		SessionID: session.ID,
		Record:    rowOutput(rec.Row()),
		Message:   fmt.Sprintf("activity '%s' started for user %s", rec.ActivityName, rec.UserName),
	}, nil
}

func (i *Interactor) StopActivity(ctx context.Context, input dto.StopInput) (dto.ActivityOutput, error) {
	var rec domain.ActivityRecord
	session, err := i.mutate(ctx, input.SessionID, func(s *domain.Session) error {
		var err error
		rec, err = i.svc.Stop(&s.Ledger)
		return err
	})
	if err != nil {
		i.reject(err, input.SessionID, "stop")
		return dto.ActivityOutput{}, err
	}
	row := rec.Row()
	i.log.Info().Str("session_id", session.ID).Str("activity", rec.ActivityName).Dur("duration", rec.Duration).Msg("activity stopped")
	return dto.ActivityOutput{
		SessionID: session.ID,
		Record:    rowOutput(row),
		Message:   fmt.Sprintf("activity '%s' stopped at %s (%s)", rec.ActivityName, row.End, row.Duration),
	}, nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	session, err := i.load(ctx, input.SessionID)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	path := input.Path
	if path == "" {
		path = session.FilePath
	}
	content, rows, err := i.svc.Export(ctx, session, path)
	if err != nil {
		i.reject(err, session.ID, "export")
		return dto.ExportOutput{}, err
	}
	if i.exports != nil {
		entry := domain.ExportEntry{SessionID: session.ID, Path: path, Rows: rows, ExportedAt: i.svc.Now()}
		if err := i.exports.Record(ctx, entry); err != nil {
			i.log.Error().Err(err).Str("session_id", session.ID).Msg("export index update failed")
		}
	}
	i.log.Info().Str("session_id", session.ID).Str("path", path).Int("rows", rows).Msg("ledger exported")
	return dto.ExportOutput{
		SessionID: session.ID,
		Path:      path,
		Filename:  filepath.Base(path),
		Content:   content,
		Rows:      rows,
		Message:   fmt.Sprintf("%d record(s) saved to %s", rows, path),
	}, nil
}

func (i *Interactor) Reset(ctx context.Context, input dto.ResetInput) (dto.SessionOutput, error) {
	session, err := i.mutate(ctx, input.SessionID, func(s *domain.Session) error {
		s.Ledger.Reset()
		return nil
	})
	if err != nil {
		return dto.SessionOutput{}, err
	}
	i.log.Info().Str("session_id", session.ID).Msg("ledger reset")
	out := sessionOutput(session)
	out.Message = "records cleared, you can start new activities"
	return out, nil
}

func (i *Interactor) Status(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	session, err := i.load(ctx, sessionID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return sessionOutput(session), nil
}

func (i *Interactor) ListSessions(ctx context.Context) ([]dto.SessionSummary, error) {
	sessions, err := i.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.SessionSummary{
			SessionID:     s.ID,
			UserName:      s.Ledger.Identity.UserName,
			ProjectNumber: s.Ledger.Identity.ProjectNumber,
			Records:       s.Ledger.Len(),
			HasOpen:       s.Ledger.Open != nil,
			CreatedAt:     s.CreatedAt,
		})
	}
	return out, nil
}

func (i *Interactor) ListExports(ctx context.Context, sessionID string) ([]dto.ExportEntryOutput, error) {
	if i.exports == nil {
		return nil, nil
	}
	entries, err := i.exports.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExportEntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ExportEntryOutput{SessionID: e.SessionID, Path: e.Path, Rows: e.Rows, ExportedAt: e.ExportedAt})
	}
	return out, nil
}

func (i *Interactor) Inspect(ctx context.Context, path string) ([]dto.RowOutput, error) {
	rows, err := i.svc.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RowOutput, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowOutput(r))
	}
	return out, nil
}

func (i *Interactor) load(ctx context.Context, sessionID string) (domain.Session, error) {
	if sessionID == "" {
		current, err := i.sessions.Current(ctx)
		if err != nil {
			return domain.Session{}, err
		}
		sessionID = current
	}
	return i.sessions.Load(ctx, sessionID)
}

// mutate applies fn to the loaded session and persists it. A failing fn
// leaves the stored session untouched.
func (i *Interactor) mutate(ctx context.Context, sessionID string, fn func(*domain.Session) error) (domain.Session, error) {
	session, err := i.load(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if err := fn(&session); err != nil {
		return domain.Session{}, err
	}
	if err := i.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (i *Interactor) reject(err error, sessionID, op string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidActivity),
		errors.Is(err, apperrors.ErrNotStarted),
		errors.Is(err, apperrors.ErrActivityInProgress),
		errors.Is(err, apperrors.ErrNothingToExport):
		i.log.Warn().Err(err).Str("session_id", sessionID).Str("operation", op).Msg("operation rejected")
	default:
		i.log.Error().Err(err).Str("session_id", sessionID).Str("operation", op).Msg("operation failed")
	}
}

func sessionOutput(s domain.Session) dto.SessionOutput {
	out := dto.SessionOutput{
		SessionID:     s.ID,
		UserName:      s.Ledger.Identity.UserName,
		ProjectNumber: s.Ledger.Identity.ProjectNumber,
		FilePath:      s.FilePath,
		State:         string(s.Ledger.State()),
		Records:       make([]dto.RowOutput, 0, s.Ledger.Len()),
	}
	for _, rec := range s.Ledger.Records() {
		out.Records = append(out.Records, rowOutput(rec.Row()))
	}
	if s.Ledger.Open != nil {
		out.HasOpen = true
		out.Open = rowOutput(s.Ledger.Open.Row())
	}
	return out
}

func rowOutput(r domain.Row) dto.RowOutput {
	return dto.RowOutput{
		ID:            r.ID,
		UserName:      r.UserName,
		ProjectNumber: r.ProjectNumber,
		Activity:      r.Activity,
		Date:          r.Date,
		Start:         r.Start,
		End:           r.End,
		Duration:      r.Duration,
	}
}
