package in

import (
	"context"

	"github.com/improdutividade/artia/internal/modules/ledger/dto"
)

// Usecase is the ledger surface offered to presentation shells. An empty
// SessionID selects the current session.
type Usecase interface {
	OpenSession(ctx context.Context, input dto.OpenSessionInput) (dto.SessionOutput, error)
	SetIdentity(ctx context.Context, input dto.IdentityInput) (dto.SessionOutput, error)
	StartActivity(ctx context.Context, input dto.StartInput) (dto.ActivityOutput, error)
	StopActivity(ctx context.Context, input dto.StopInput) (dto.ActivityOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	Reset(ctx context.Context, input dto.ResetInput) (dto.SessionOutput, error)
	Status(ctx context.Context, sessionID string) (dto.SessionOutput, error)
	ListSessions(ctx context.Context) ([]dto.SessionSummary, error)
	ListExports(ctx context.Context, sessionID string) ([]dto.ExportEntryOutput, error)
	Inspect(ctx context.Context, path string) ([]dto.RowOutput, error)
}
