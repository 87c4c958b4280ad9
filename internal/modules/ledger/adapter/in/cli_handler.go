package in

import (
	"context"

	"github.com/improdutividade/artia/internal/modules/ledger/dto"
	ledgerin "github.com/improdutividade/artia/internal/modules/ledger/port/in"
)

// CLIHandler adapts flag values to ledger usecase inputs. Both the cobra
// commands and the TUI drive the ledger through it.
type CLIHandler struct {
	usecase ledgerin.Usecase
}

func NewCLIHandler(usecase ledgerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) OpenSession(ctx context.Context, userName, projectNumber string) (dto.SessionOutput, error) {
	return h.usecase.OpenSession(ctx, dto.OpenSessionInput{UserName: userName, ProjectNumber: projectNumber})
}

func (h CLIHandler) SetIdentity(ctx context.Context, sessionID, userName, projectNumber string) (dto.SessionOutput, error) {
	return h.usecase.SetIdentity(ctx, dto.IdentityInput{SessionID: sessionID, UserName: userName, ProjectNumber: projectNumber})
}

func (h CLIHandler) Start(ctx context.Context, sessionID, activityName string) (dto.ActivityOutput, error) {
	return h.usecase.StartActivity(ctx, dto.StartInput{SessionID: sessionID, ActivityName: activityName})
}

func (h CLIHandler) Stop(ctx context.Context, sessionID string) (dto.ActivityOutput, error) {
	return h.usecase.StopActivity(ctx, dto.StopInput{SessionID: sessionID})
}

func (h CLIHandler) Export(ctx context.Context, sessionID, path string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{SessionID: sessionID, Path: path})
}

func (h CLIHandler) Reset(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	return h.usecase.Reset(ctx, dto.ResetInput{SessionID: sessionID})
}

func (h CLIHandler) Status(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	return h.usecase.Status(ctx, sessionID)
}

func (h CLIHandler) ListSessions(ctx context.Context) ([]dto.SessionSummary, error) {
	return h.usecase.ListSessions(ctx)
}

func (h CLIHandler) ListExports(ctx context.Context, sessionID string) ([]dto.ExportEntryOutput, error) {
	return h.usecase.ListExports(ctx, sessionID)
}

func (h CLIHandler) Inspect(ctx context.Context, path string) ([]dto.RowOutput, error) {
	return h.usecase.Inspect(ctx, path)
}
