package cli

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"kanban-cli/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	var listen, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local backend (sqlite-backed REST API with a stub assistant)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Serve.Listen
			}
			if dbPath == "" {
				dbPath = cfg.Serve.DBPath
			}
			if dbPath == "" {
				dbPath = defaultDBPath()
			}

			st, err := server.OpenStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			log.Printf("serving on %s (db %s)", listen, dbPath)
			return server.New(st).ListenAndServe(listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config, else :8080)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the sqlite database")
	return cmd
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kanban.db"
	}
	dir := filepath.Join(home, ".kanban")
	_ = os.MkdirAll(dir, 0o700)
	return filepath.Join(dir, "kanban.db")
}
