package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "robinctl",
	Short: "Sir Robin, the Python Discord events bot",
	Long: `Sir Robin runs the Python Discord events: the Summer Code Jam,
Advent of Code and the in-between community games. robinctl starts the
Discord bot, the code jam management API, and the supporting tooling.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// .env is optional; production supplies real environment
		// variables.
		_ = godotenv.Load()
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)
	},
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose || os.Getenv("BOT_DEBUG") == "true" {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
