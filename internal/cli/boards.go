package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

const requestTimeout = 10 * time.Second

func newBoardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "Manage boards on the backend",
	}
	cmd.AddCommand(newBoardsListCmd(app))
	cmd.AddCommand(newBoardsCreateCmd(app))
	cmd.AddCommand(newBoardsRenameCmd(app))
	cmd.AddCommand(newBoardsRmCmd(app))
	return cmd
}

func newBoardsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			boards, err := newClient(cfg).ListBoards(ctx)
			if err != nil {
				return err
			}
			if len(boards) == 0 {
				printfOut(cmd, "no boards\n")
				return nil
			}
			for _, b := range boards {
				printfOut(cmd, "%s\t%s\t(updated %s)\n", b.ID, b.Name, b.UpdatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newBoardsCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a board seeded with the default columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			detail, err := newClient(cfg).CreateBoard(ctx, args[0])
			if err != nil {
				return err
			}
			printfOut(cmd, "created %s\t%s\n", detail.ID, detail.Name)
			return nil
		},
	}
}

func newBoardsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <board-id> <name>",
		Short: "Rename a board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			if err := newClient(cfg).RenameBoard(ctx, args[0], args[1]); err != nil {
				return err
			}
			printfOut(cmd, "renamed %s\n", args[0])
			return nil
		},
	}
}

func newBoardsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <board-id>",
		Short: "Delete a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			if err := newClient(cfg).DeleteBoard(ctx, args[0]); err != nil {
				return err
			}
			printfOut(cmd, "deleted %s\n", args[0])
			return nil
		},
	}
}
