package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KemboiK/evolve-bot/internal/ui"
)

func newResetCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset a session's XP and task progress (achievements survive)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.ResetProgress(ctx, session); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Reset done: ")+session+" is back to level 1.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "local", "Session key")
	return cmd
}
