package root

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/KemboiK/evolve-bot/internal/ui"
)

func newChatCmd() *cobra.Command {
	var session string
	var name string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the bot in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if session == "" {
				session = uuid.NewString()
			}

			rl, err := readline.New(ui.Key.Render("you> "))
			if err != nil {
				return err
			}
			defer rl.Close()

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconChat, "Evolve chat"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Type /help for commands, /exit to quit."))

			for {
				line, err := rl.Readline()
				if err != nil {
					// Ctrl-C on an empty line or Ctrl-D ends the session.
					if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}
				text := strings.TrimSpace(line)
				if text == "" {
					continue
				}
				if text == "/exit" || text == "/quit" {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Bye!"))
					return nil
				}

				res, err := svc.ProcessMessage(ctx, session, text, name)
				if err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Bad.Render(ui.IconError+" "+err.Error()))
					continue
				}

				if res.Blocked {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconWarn+" blocked: "+res.BlockReason))
					continue
				}

				fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render("bot> ")+res.Reply)
				if res.XPGained > 0 {
					note := fmt.Sprintf("+%d XP", res.XPGained)
					if res.LeveledUp {
						note += " · " + ui.BadgeLevelUp + fmt.Sprintf(" → %d", res.NewLevel)
					}
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(ui.IconBolt+" "+note))
				}
				for _, key := range res.NewAchievements {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Gold.Render(ui.IconTrophy+" Achievement unlocked: "+key))
				}
			}
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "local", "Session key (empty for a fresh random session)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	return cmd
}
