package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"kanban-cli/internal/api"
)

func newLoginCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a session token for the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				printfOut(cmd, "token: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return err
				}
				token = strings.TrimSpace(line)
			}
			if token == "" {
				return errors.New("login: empty token")
			}
			if err := api.SetToken(token, nil); err != nil {
				return err
			}
			printfOut(cmd, "logged in\n")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Session token (prompted for when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api.DeleteToken(); err != nil {
				return err
			}
			printfOut(cmd, "logged out\n")
			return nil
		},
	}
}
