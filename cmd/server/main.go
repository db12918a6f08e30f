package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/social-wizard/internal/app"
	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/internal/server"
	"github.com/social-wizard/internal/source/web"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "social-wizard-server",
		Short: "HTTP API for the LinkedIn post generator",
		Long: `Serves the corpus, scraping, trending and generation endpoints.
Every request makes at most one call to each external backend.`,
		RunE:         runServer,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := app.NewLogger(cfg.Logging)
	log.Info().Msg("Starting social-wizard API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := app.OpenRepository(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	limiter := app.NewLimiter(cfg.RateLimit)

	deps := server.Deps{
		Repository: repo,
		Scraper:    web.NewFetcher(cfg.Scraper, limiter, log),
	}
	if len(cfg.Trending.Feeds) > 0 || len(cfg.Trending.Keywords) > 0 {
		deps.Trending = app.NewTrendingAgent(cfg.Trending, repo, limiter, log)
	}

	notifier := app.NewSlackNotifier(cfg.Slack, limiter, log)
	if notifier != nil {
		deps.Notifier = notifier
	} else {
		log.Warn().Msg("slack.bot_token not set, /api/slack/post is disabled")
	}

	deps.Generator, err = app.NewPublisher(cfg, repo, notifier, limiter, log)
	if err != nil {
		return err
	}

	return server.New(cfg.Server, deps, log).Run(ctx)
}
