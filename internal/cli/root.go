// Package cli wires the cobra command tree: the interactive board by
// default, plus scriptable subcommands for the dev server, board
// management, and credentials.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kanban-cli/internal/api"
	"kanban-cli/internal/config"
	"kanban-cli/internal/model"
	"kanban-cli/internal/store/cache"
	"kanban-cli/internal/syncer"
	"kanban-cli/internal/tui"
)

type App struct {
	ConfigPath string
	Server     string
	Board      string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "kanban",
		Short:        "Kanban board TUI with drag and drop and an AI assistant",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the interactive board
  kanban

  # Open a specific board
  kanban --board board-3f2a

  # Run the local dev backend
  kanban serve
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: interactive board.
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("KANBAN_CONFIG", config.DefaultPath()), "Path to config file")
	cmd.PersistentFlags().StringVar(&app.Server, "server", "", "Backend base URL (overrides config and KANBAN_SERVER)")
	cmd.PersistentFlags().StringVar(&app.Board, "board", "", "Board id (default: the single shared board)")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newBoardsCmd(app))
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())

	return cmd
}

// loadConfig resolves effective settings: file values under flag overrides.
func loadConfig(app *App) (config.Config, error) {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if app.Server != "" {
		cfg.Server = app.Server
	}
	if app.Board != "" {
		cfg.Board = app.Board
	}
	return cfg, nil
}

func newClient(cfg config.Config) *api.Client {
	token := ""
	if info, err := api.GetToken(); err == nil && info != nil {
		token = info.Token
	}
	return api.NewClient(cfg.Server, token)
}

func runTUI(app *App) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	save := func(ctx context.Context, board model.Board) error {
		var err error
		if cfg.Board != "" {
			err = client.SaveBoardData(ctx, cfg.Board, board)
		} else {
			err = client.SaveBoard(ctx, board)
		}
		if err == nil {
			// Refresh the offline snapshot alongside every durable write.
			_ = cache.Save(board)
		}
		return err
	}

	// The alternate screen owns stderr while the TUI runs, so save failures
	// go to a log file instead.
	errLog, closeLog := openErrorLog()
	defer closeLog()

	sync := syncer.New(save, syncer.Options{
		Debounce: cfg.Debounce(),
		Timeout:  cfg.SaveTimeout(),
		OnError: func(err error) {
			errLog.Printf("save failed: %v", err)
		},
	})
	defer func() { _ = sync.Flush() }()

	return tui.Run(tui.Options{
		Client:  client,
		Syncer:  sync,
		BoardID: cfg.Board,
	})
}

func openErrorLog() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(os.Stderr, "", log.LstdFlags), func() {}
	}
	dir := filepath.Join(home, ".kanban")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return log.New(os.Stderr, "", log.LstdFlags), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "kanban.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(os.Stderr, "", log.LstdFlags), func() {}
	}
	return log.New(f, "", log.LstdFlags), func() { _ = f.Close() }
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printfOut(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
