package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/social-wizard/internal/app"
	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "social-wizard-scheduler",
		Short: "Background scheduler for social-wizard",
		Long: `Runs scheduled trending refreshes and, optionally, scheduled post
generation delivered to Slack. Run it as a service.`,
		RunE: runScheduler,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScheduler(cmd *cobra.Command, args []string) error {
	var err error

	// Load config
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log = app.NewLogger(cfg.Logging)
	log.Info().Msg("Starting social-wizard scheduler")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := app.OpenRepository(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	go app.RunHealthServer(ctx, app.HealthPort(cfg.Scheduler.HealthPort), "social-wizard scheduler", log)

	limiter := app.NewLimiter(cfg.RateLimit)
	trendingAgent := app.NewTrendingAgent(cfg.Trending, repo, limiter, log)

	c := cron.New(cron.WithLogger(cronLogger{log}))

	// Schedule trending refresh
	_, err = c.AddFunc(cfg.Scheduler.TrendingCron, func() {
		log.Info().Msg("Running scheduled trending refresh")

		result, err := trendingAgent.Refresh(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Scheduled trending refresh failed")
			return
		}

		log.Info().
			Int("items_found", result.ItemsFound).
			Int("items_kept", result.ItemsKept).
			Bool("updated", result.Updated).
			Msg("Scheduled trending refresh completed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule trending job: %w", err)
	}
	log.Info().Str("cron", cfg.Scheduler.TrendingCron).Msg("Trending job scheduled")

	// Schedule post generation
	if cfg.Scheduler.GenerateCron != "" {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("scheduled generation needs a complete config: %w", err)
		}
		if err := cfg.ValidateSlack(false); err != nil {
			return fmt.Errorf("scheduled generation needs slack: %w", err)
		}

		notifier := app.NewSlackNotifier(cfg.Slack, limiter, log)
		publisherAgent, err := app.NewPublisher(cfg, repo, notifier, limiter, log)
		if err != nil {
			return err
		}

		_, err = c.AddFunc(cfg.Scheduler.GenerateCron, func() {
			log.Info().Msg("Running scheduled post generation")

			if _, err := publisherAgent.Publish(ctx, models.GenerationOptions{}); err != nil {
				log.Error().Err(err).Msg("Scheduled post generation failed")
				return
			}
			log.Info().Str("channel", cfg.Slack.Channel).Msg("Scheduled post delivered")
		})
		if err != nil {
			return fmt.Errorf("failed to schedule generate job: %w", err)
		}
		log.Info().Str("cron", cfg.Scheduler.GenerateCron).Msg("Generate job scheduled")
	}

	// Start scheduler
	c.Start()
	log.Info().Msg("Scheduler started")

	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler")
	<-c.Stop().Done()

	return nil
}

// cronLogger adapts our logger for cron
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
