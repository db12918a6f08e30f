package app

import (
	"context"
	"fmt"

	goslack "github.com/slack-go/slack"

	"github.com/social-wizard/internal/agent/publisher"
	"github.com/social-wizard/internal/agent/trending"
	"github.com/social-wizard/internal/ai"
	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/internal/media"
	"github.com/social-wizard/internal/media/inference"
	"github.com/social-wizard/internal/media/unsplash"
	"github.com/social-wizard/internal/prompt"
	"github.com/social-wizard/internal/slack"
	"github.com/social-wizard/internal/source"
	"github.com/social-wizard/internal/source/custom"
	"github.com/social-wizard/internal/source/rss"
	"github.com/social-wizard/internal/storage"
	"github.com/social-wizard/internal/storage/memory"
	"github.com/social-wizard/internal/storage/mongo"
	"github.com/social-wizard/internal/storage/sheets"
	"github.com/social-wizard/internal/storage/sqldb"
	"github.com/social-wizard/pkg/logger"
	"github.com/social-wizard/pkg/ratelimit"
)

// NewLogger builds the process logger from config
func NewLogger(cfg config.LoggingConfig) *logger.Logger {
	return logger.New(logger.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
		Output: cfg.Output,
	})
}

// NewLimiter builds the shared outbound rate limiter
func NewLimiter(cfg config.RateLimitConfig) *ratelimit.MultiLimiter {
	return ratelimit.NewLimiter(ratelimit.Limits{
		AnthropicPerMinute: cfg.AnthropicRequestsPerMinute,
		ImagePerMinute:     cfg.ImageRequestsPerMinute,
		ScrapePerMinute:    cfg.ScrapeRequestsPerMinute,
	})
}

// OpenRepository connects the configured corpus store and runs its migrations
func OpenRepository(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (storage.Repository, error) {
	var (
		repo storage.Repository
		err  error
	)

	switch cfg.Driver {
	case "sqlite", "postgres":
		log.Info().Str("driver", cfg.Driver).Msg("Using SQL corpus store")
		repo, err = sqldb.New(sqldb.Config{Driver: cfg.Driver, DSN: cfg.DSN})
	case "mongo":
		log.Info().Str("database", cfg.MongoDatabase).Msg("Using MongoDB corpus store")
		repo, err = mongo.New(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase, Timeout: cfg.Timeout}, log)
	case "sheets":
		log.Info().Msg("Using Google Sheets corpus store")
		repo, err = sheets.New(sheets.Config{
			SpreadsheetID:      cfg.SpreadsheetID,
			ServiceAccountJSON: cfg.ServiceAccountJSON,
			CredentialsFile:    cfg.CredentialsFile,
		}, log)
	case "memory":
		log.Warn().Msg("Using in-memory corpus store, nothing will be persisted")
		repo = memory.New()
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}

	if err := repo.Migrate(); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return repo, nil
}

// NewImageGenerator returns nil when image generation is disabled
func NewImageGenerator(cfg config.ImageConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) (*media.Generator, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var provider media.Provider
	switch cfg.Provider {
	case "inference", "":
		provider = inference.NewClient(cfg.Endpoint, cfg.APIKey, cfg.Timeout, log)
	case "unsplash":
		provider = unsplash.NewClient(cfg.UnsplashAPIKey, "", cfg.Timeout, log)
	default:
		return nil, fmt.Errorf("unknown image provider: %s", cfg.Provider)
	}
	return media.NewGenerator(provider, cfg, limiter, log), nil
}

// NewSlackNotifier returns nil when no bot token is configured
func NewSlackNotifier(cfg config.SlackConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) *slack.Notifier {
	if cfg.BotToken == "" {
		return nil
	}
	api := goslack.New(cfg.BotToken)
	return slack.NewNotifier(slack.NewPoster(api), cfg.Channel, limiter, log)
}

// NewPublisher wires the generation pipeline
func NewPublisher(cfg *config.Config, repo storage.Repository, notifier *slack.Notifier, limiter *ratelimit.MultiLimiter, log *logger.Logger) (*publisher.Agent, error) {
	images, err := NewImageGenerator(cfg.Image, limiter, log)
	if err != nil {
		return nil, err
	}

	composer := prompt.NewComposer(prompt.TemplateFromConfig(cfg.Prompt), nil)
	text := ai.NewClient(cfg.Anthropic, limiter, log)

	// keep interface values nil when the concrete pointers are nil
	var imageGen publisher.ImageGenerator
	if images != nil {
		imageGen = images
	}
	var n publisher.Notifier
	if notifier != nil {
		n = notifier
	}

	return publisher.NewAgent(repo, composer, text, imageGen, n, log), nil
}

// NewTrendingAgent registers every configured trending source
func NewTrendingAgent(cfg config.TrendingConfig, repo storage.Repository, limiter *ratelimit.MultiLimiter, log *logger.Logger) *trending.Agent {
	manager := source.NewManager()
	for _, src := range rss.NewMultiple(cfg, limiter, log) {
		manager.Register(src)
	}
	if len(cfg.Keywords) > 0 {
		manager.Register(custom.New(cfg.Keywords, log))
	}
	return trending.NewAgent(manager, repo, cfg.MaxItems, log)
}
