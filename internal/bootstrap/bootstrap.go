package bootstrap

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	ledgerinadapter "github.com/improdutividade/artia/internal/modules/ledger/adapter/in"
	ledgeroutadapter "github.com/improdutividade/artia/internal/modules/ledger/adapter/out"
	ledgerservice "github.com/improdutividade/artia/internal/modules/ledger/service"
	ledgerusecase "github.com/improdutividade/artia/internal/modules/ledger/usecase"
	"github.com/improdutividade/artia/internal/platform/clock"
	"github.com/improdutividade/artia/internal/platform/config"
	"github.com/improdutividade/artia/internal/platform/id"
	"github.com/improdutividade/artia/internal/platform/logging"
	uiapp "github.com/improdutividade/artia/internal/ui/app"
)

type App struct {
	LedgerCLI ledgerinadapter.CLIHandler

	log     zerolog.Logger
	exports *ledgeroutadapter.SQLiteExportIndex
}

func New(cfg config.Config, logger zerolog.Logger) (*App, error) {
	startup := logging.Component(logger, logging.ComponentStartup)
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	sink := ledgeroutadapter.NewXLSXSink(cfg.SheetName)
	startup.Debug().Str("subsystem", logging.ComponentSink).Str("sheet", cfg.SheetName).Msg("spreadsheet sink ready")

	sessions := ledgeroutadapter.NewFileSessionStore(cfg.DataDir, logging.Component(logger, logging.ComponentStore))
	startup.Debug().Str("subsystem", logging.ComponentStore).Str("data_dir", cfg.DataDir).Msg("session store ready")

	exports, err := ledgeroutadapter.NewSQLiteExportIndex(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new export index: %w", err)
	}
	startup.Debug().Str("subsystem", logging.ComponentIndex).Str("db", cfg.DBPath).Msg("export index ready")

	svc := ledgerservice.NewLedgerService(clock.SystemClock{}, id.UUID{}, sink, clock.FixedOffset(cfg.TimezoneOffsetHours), cfg.DataDir)
	ledgerUC := ledgerusecase.NewInteractor(svc, sessions, exports, logging.Component(logger, logging.ComponentLedger))

	return &App{
		LedgerCLI: ledgerinadapter.NewCLIHandler(ledgerUC),
		log:       logger,
		exports:   exports,
	}, nil
}

func (a *App) Close() error {
	if a.exports == nil {
		return nil
	}
	return a.exports.Close()
}

// RunTUI starts the interactive form bound to sessionID, or to the current
// session when sessionID is empty.
func RunTUI(app *App, sessionID string) error {
	model := uiapp.NewModel(app.LedgerCLI, sessionID, logging.Component(app.log, logging.ComponentTUI))
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
