package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KemboiK/evolve-bot/internal/engine"
	"github.com/KemboiK/evolve-bot/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a session's level, streak and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := svc.GetProfile(ctx, session)
			if err != nil {
				return err
			}
			streak, err := svc.Streak(ctx, session)
			if err != nil {
				return err
			}
			unlocked, err := svc.GetAchievements(ctx, session)
			if err != nil {
				return err
			}
			done, err := svc.ProgressRepo().ListBySession(ctx, session)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, p.DisplayName+" — "+session))
			fmt.Fprintln(out, ui.LabelValue("Level", p.Level))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d/%d (all-time ~%d)",
				p.XP, engine.XPToNextLevel(p.Level), engine.TotalXPEquivalent(p.XP, p.Level))))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%d days (x%.2f multiplier)",
				streak, engine.StreakMultiplier(streak))))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconBook+" Tasks"))
			doneSet := map[string]bool{}
			for _, rec := range done {
				doneSet[rec.TaskID] = true
			}
			for _, t := range engine.TaskCatalog() {
				mark := ui.Muted.Render("[ ]")
				if doneSet[t.ID] {
					mark = ui.Good.Render("[x]")
				}
				fmt.Fprintf(out, "%s %s %s\n", mark, t.Title, ui.Muted.Render("("+string(t.Kind)+")"))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconTrophy+" Achievements"))
			unlockedSet := map[string]bool{}
			for _, a := range unlocked {
				unlockedSet[a.AchievementKey] = true
			}
			for _, def := range engine.AchievementCatalog() {
				if unlockedSet[def.Key] {
					fmt.Fprintf(out, "%s %s\n", ui.Gold.Render("★"), def.Title)
				} else {
					fmt.Fprintf(out, "%s %s\n", ui.Muted.Render(ui.IconLock), ui.Muted.Render(def.Title))
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "local", "Session key")
	return cmd
}
