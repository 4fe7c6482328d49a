package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raykavin/boostwatch"
	"github.com/raykavin/boostwatch/pkg/config"
	"github.com/raykavin/boostwatch/pkg/dexscreener"
	"github.com/raykavin/boostwatch/pkg/notification"
	"github.com/raykavin/boostwatch/pkg/scanner"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "boostwatch",
		Short:        "DexScreener boost alerts for Telegram",
		Version:      "1.0.0",
		RunE:         run,
		SilenceUsage: true,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	log := boostwatch.DefaultLog

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	client := dexscreener.NewClient(settings, log)
	source := scanner.New(client, settings.TargetChain, log)

	bot, err := boostwatch.NewBot(settings, source, log, boostwatch.WithTokenDetailer(client))
	if err != nil {
		return err
	}

	notifier, err := notification.NewTelegram(settings, notification.WithStatusReporter(bot))
	if err != nil {
		return err
	}
	bot.SetNotifier(notifier)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return bot.Run(ctx)
}
