package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KemboiK/evolve-bot/internal/ui"
)

const Version = "0.1.0"

var (
	flagDBPath string
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:           "evolve",
	Short:         "Evolve — learning chat bot with XP, streaks and achievements",
	Long:          "Evolve is a chat backend that awards XP with streak multipliers, rolls levels over and unlocks achievements as you learn.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the SQLite database (default ~/.evolve.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a JSON config file")

	rootCmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newStatusCmd(),
		newBoardCmd(),
		newResetCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
