package root

import (
	"github.com/spf13/cobra"

	"github.com/KemboiK/evolve-bot/internal/tui"
)

func newBoardCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI progress dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, svc, session, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "local", "Session key")
	return cmd
}
