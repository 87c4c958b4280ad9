package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/improdutividade/artia/internal/bootstrap"
	"github.com/improdutividade/artia/internal/modules/ledger/dto"
	"github.com/improdutividade/artia/internal/platform/config"
	apperrors "github.com/improdutividade/artia/internal/platform/errors"
	"github.com/improdutividade/artia/internal/platform/logging"
)

const (
	exitFailure  = 1
	exitRejected = 2
)

type rootOptions struct {
	dataDir    string
	configPath string
	sessionID  string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "artia",
		Short:         "Activity time ledger with spreadsheet export",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory for spreadsheets and session state (default from config, else .)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "optional YAML config file")
	root.PersistentFlags().StringVar(&opts.sessionID, "session", "", "session id (defaults to the current session)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error|disabled")

	root.AddCommand(newSessionCmd(opts))
	root.AddCommand(newActivityCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newResetCmd(opts))
	root.AddCommand(newExportsCmd(opts))
	root.AddCommand(newInspectCmd(opts))
	root.AddCommand(newTUICmd(opts))
	return root
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.Load(opts.configPath, opts.dataDir)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	cliLogger := logging.Component(logger, logging.ComponentCLI)
	cliLogger.Debug().Str("data_dir", cfg.DataDir).Msg("configuration loaded")
	return bootstrap.New(cfg, logger)
}

// withApp builds the application, runs fn and releases the export index.
func withApp(opts *rootOptions, fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(context.Background(), app)
}

// reportError prints err and returns the process exit code. Ledger rule
// violations are warnings; anything else is a failure.
func reportError(w io.Writer, err error) int {
	if isRejection(err) {
		_, _ = color.New(color.FgYellow, color.Bold).Fprintf(w, "warning: %v\n", err)
		return exitRejected
	}
	_, _ = color.New(color.FgRed, color.Bold).Fprintf(w, "error: %v\n", err)
	return exitFailure
}

func isRejection(err error) bool {
	return errors.Is(err, apperrors.ErrInvalidActivity) ||
		errors.Is(err, apperrors.ErrNotStarted) ||
		errors.Is(err, apperrors.ErrActivityInProgress) ||
		errors.Is(err, apperrors.ErrNothingToExport)
}

func success(w io.Writer, format string, args ...any) {
	_, _ = color.New(color.FgGreen).Fprintf(w, format+"\n", args...)
}

func newSessionCmd(opts *rootOptions) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Session lifecycle"}

	var user, project string
	newCmd := &cobra.Command{
		Use:   "new --user <name> --project <number>",
		Short: "Open a new session and make it current",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.OpenSession(ctx, user, project)
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "%s", out.Message)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session: %s\nfile: %s\n", out.SessionID, out.FilePath)
				return nil
			})
		},
	}
	newCmd.Flags().StringVar(&user, "user", "", "user name")
	newCmd.Flags().StringVar(&project, "project", "", "project number")

	var idUser, idProject string
	identity := &cobra.Command{
		Use:   "identity --user <name> --project <number>",
		Short: "Change the user name and project of a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.SetIdentity(ctx, opts.sessionID, idUser, idProject)
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "%s", out.Message)
				return nil
			})
		},
	}
	identity.Flags().StringVar(&idUser, "user", "", "user name")
	identity.Flags().StringVar(&idProject, "project", "", "project number")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show identity, open activity and records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.Status(ctx, opts.sessionID)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "session: %s\nuser: %s\nproject: %s\nfile: %s\nstate: %s\n", out.SessionID, out.UserName, out.ProjectNumber, out.FilePath, out.State)
				if out.HasOpen {
					_, _ = fmt.Fprintf(w, "open: %s since %s\n", out.Open.Activity, out.Open.Start)
				}
				printRows(w, out.Records)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List known sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				sessions, err := app.LedgerCLI.ListSessions(ctx)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\trecords=%d\topen=%t\tcreated=%s\n", s.SessionID, s.UserName, s.ProjectNumber, s.Records, s.HasOpen, s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
				}
				return nil
			})
		},
	}

	session.AddCommand(newCmd, identity, show, list)
	return session
}

func newActivityCmd(opts *rootOptions) *cobra.Command {
	activity := &cobra.Command{Use: "activity", Short: "Start and stop activities"}

	start := &cobra.Command{
		Use:   "start <name>",
		Short: "Start an activity in the current session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.Start(ctx, opts.sessionID, strings.Join(args, " "))
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "%s", out.Message)
				return nil
			})
		},
	}

	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the open activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.Stop(ctx, opts.sessionID)
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "%s", out.Message)
				return nil
			})
		},
	}

	activity.AddCommand(start, stop)
	return activity
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outPath string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write every record to the session spreadsheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.Export(ctx, opts.sessionID, outPath)
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "%s", out.Message)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "download: %s (%d bytes)\n", out.Filename, len(out.Content))
				return nil
			})
		},
	}
	export.Flags().StringVar(&outPath, "out", "", "write to this path instead of the session file")
	return export
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear all records, keeping user and project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.Reset(ctx, opts.sessionID)
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "%s", out.Message)
				return nil
			})
		},
	}
}

func newExportsCmd(opts *rootOptions) *cobra.Command {
	var all bool
	exports := &cobra.Command{
		Use:   "exports",
		Short: "List recorded exports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				sessionID := opts.sessionID
				if all {
					sessionID = ""
				} else if sessionID == "" {
					current, err := app.LedgerCLI.Status(ctx, "")
					if err != nil {
						return err
					}
					sessionID = current.SessionID
				}
				entries, err := app.LedgerCLI.ListExports(ctx, sessionID)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no exports")
					return nil
				}
				for _, e := range entries {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\trows=%d\t%s\n", e.ExportedAt.Format("2006-01-02T15:04:05Z07:00"), e.SessionID, e.Rows, e.Path)
				}
				return nil
			})
		},
	}
	exports.Flags().BoolVar(&all, "all", false, "list exports of every session")
	return exports
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>",
		Short: "Read back an exported spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				rows, err := app.LedgerCLI.Inspect(ctx, args[0])
				if err != nil {
					return err
				}
				printRows(cmd.OutOrStdout(), rows)
				return nil
			})
		},
	}
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive ledger form",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, func(_ context.Context, app *bootstrap.App) error {
				return bootstrap.RunTUI(app, opts.sessionID)
			})
		},
	}
}

func printRows(w io.Writer, rows []dto.RowOutput) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "no records")
		return
	}
	_, _ = fmt.Fprintln(w, "ID\tNome_Usuário\tNumero_Projeto\tAtividade\tData\tInício\tFim\tDuração")
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.UserName, r.ProjectNumber, r.Activity, r.Date, r.Start, r.End, r.Duration)
	}
}
