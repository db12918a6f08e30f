package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goslack "github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"github.com/spf13/cobra"

	"github.com/social-wizard/internal/app"
	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/internal/slack"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "social-wizard-slackbot",
		Short: "Slack bot that relays /suggest-post commands to the API",
		Long: `Connects to Slack in socket mode, answers /suggest-post and
/suggest-post-custom by calling the generate endpoint and posting the result.`,
		RunE:         runBot,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateSlack(true); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := app.NewLogger(cfg.Logging)
	log.Info().Str("generate_url", cfg.Slack.GenerateURL).Msg("Starting Slack bot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := goslack.New(cfg.Slack.BotToken, goslack.OptionAppLevelToken(cfg.Slack.AppToken))
	client := socketmode.New(api)

	limiter := app.NewLimiter(cfg.RateLimit)
	notifier := slack.NewNotifier(slack.NewPoster(api), cfg.Slack.Channel, limiter, log)
	bot := slack.NewBot(slack.NewAPIClient(cfg.Slack.GenerateURL, cfg.Slack.Timeout), notifier, api, log)

	go app.RunHealthServer(ctx, app.HealthPort(cfg.Slack.HealthPort), "Bot running", log)

	if err := bot.Run(ctx, client); err != nil && ctx.Err() == nil {
		return fmt.Errorf("socket mode stopped: %w", err)
	}
	log.Info().Msg("Slack bot stopped")
	return nil
}
