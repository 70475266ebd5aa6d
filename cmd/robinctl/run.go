package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/python-discord/sir-robin-go/pkg/bot"
	"github.com/python-discord/sir-robin-go/pkg/config"
	"github.com/python-discord/sir-robin-go/pkg/exts/aoc"
	"github.com/python-discord/sir-robin-go/pkg/exts/codejam"
	"github.com/python-discord/sir-robin-go/pkg/exts/games"
	"github.com/python-discord/sir-robin-go/pkg/exts/misc"
	"github.com/python-discord/sir-robin-go/pkg/exts/ping"
	"github.com/python-discord/sir-robin-go/pkg/exts/smarteval"
	"github.com/python-discord/sir-robin-go/pkg/exts/summeraoc"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Discord bot",
	Long: `Run the Discord bot.

Requires the BOT_TOKEN environment variable. Set BOT_IN_CI=true to
construct the bot without connecting to the gateway, which is how the
CI pipeline smoke-tests startup.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBot(); err != nil {
			fmt.Fprintf(os.Stderr, "Bot failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBot() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	b, err := bot.New(cfg)
	if err != nil {
		return err
	}

	extensions := []bot.Extension{
		ping.New(),
		misc.New(),
		smarteval.New(),
		games.New(),
		summeraoc.New(),
		aoc.New(),
		codejam.New(),
	}
	for _, ext := range extensions {
		if err := b.AddExtension(ext); err != nil {
			return err
		}
	}

	if cfg.Client.InCI {
		slog.Info("CI run, exiting before connecting to the gateway")
		return b.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return b.Run(ctx)
}
