package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Image     ImageConfig     `mapstructure:"image"`
	Prompt    PromptConfig    `mapstructure:"prompt"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Slack     SlackConfig     `mapstructure:"slack"`
	Trending  TrendingConfig  `mapstructure:"trending"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // gin mode: debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds corpus store connection settings
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, postgres, mongo, sheets or memory
	DSN    string `mapstructure:"dsn"`    // Connection string (sqlite path or postgres DSN)
	// Mongo
	MongoURI      string        `mapstructure:"mongo_uri"`
	MongoDatabase string        `mapstructure:"mongo_database"`
	Timeout       time.Duration `mapstructure:"timeout"`
	// Google Sheets
	SpreadsheetID      string `mapstructure:"spreadsheet_id"`
	CredentialsFile    string `mapstructure:"credentials_file"`
	ServiceAccountJSON string `mapstructure:"service_account_json"`
}

// AnthropicConfig holds Claude API settings
type AnthropicConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	BaseURL   string        `mapstructure:"base_url"` // Override for proxies and tests
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ImageConfig holds image generation settings
type ImageConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Provider       string        `mapstructure:"provider"` // "inference" or "unsplash"
	Endpoint       string        `mapstructure:"endpoint"` // Inference endpoint returning binary image data
	APIKey         string        `mapstructure:"api_key"`
	UnsplashAPIKey string        `mapstructure:"unsplash_api_key"`
	StylePrefix    string        `mapstructure:"style_prefix"`
	SeedChars      int           `mapstructure:"seed_chars"` // Leading post characters used as prompt seed
	Timeout        time.Duration `mapstructure:"timeout"`
}

// PromptConfig holds the wording of the generation prompt.
// Empty values fall back to the built-in template.
type PromptConfig struct {
	Intro            string            `mapstructure:"intro"`
	Rules            []string          `mapstructure:"rules"`
	BannedPhrases    []string          `mapstructure:"banned_phrases"`
	Task             string            `mapstructure:"task"`
	Guidelines       []string          `mapstructure:"guidelines"`
	Closing          string            `mapstructure:"closing"`
	BrandLabel       string            `mapstructure:"brand_label"`
	MemoryLabel      string            `mapstructure:"memory_label"`
	TrendingLabel    string            `mapstructure:"trending_label"`
	TrendingHint     string            `mapstructure:"trending_hint"`
	LengthDirectives map[string]string `mapstructure:"length_directives"`
	ToneDirectives   map[string]string `mapstructure:"tone_directives"`
}

// ScraperConfig holds source ingestion settings
type ScraperConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxChars  int           `mapstructure:"max_chars"`
}

// SlackConfig holds chat integration settings
type SlackConfig struct {
	BotToken    string        `mapstructure:"bot_token"`
	AppToken    string        `mapstructure:"app_token"` // xapp- token for socket mode
	Channel     string        `mapstructure:"channel"`
	GenerateURL string        `mapstructure:"generate_url"` // HTTP API endpoint the bot calls
	Timeout     time.Duration `mapstructure:"timeout"`
	HealthPort  int           `mapstructure:"health_port"` // Bot health server, apart from the API port
}

// TrendingConfig holds trending topic refresh settings
type TrendingConfig struct {
	Feeds    []RSSFeed     `mapstructure:"feeds"`
	Keywords []string      `mapstructure:"keywords"`
	MaxItems int           `mapstructure:"max_items"`
	MaxAge   time.Duration `mapstructure:"max_age"`
	Timeout  time.Duration `mapstructure:"timeout"` // Per-feed fetch bound
}

// RSSFeed represents a single RSS feed
type RSSFeed struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// SchedulerConfig holds scheduler settings
type SchedulerConfig struct {
	TrendingCron string `mapstructure:"trending_cron"`
	GenerateCron string `mapstructure:"generate_cron"` // Empty disables scheduled generation
	HealthPort   int    `mapstructure:"health_port"`
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	AnthropicRequestsPerMinute int `mapstructure:"anthropic_requests_per_minute"`
	ImageRequestsPerMinute     int `mapstructure:"image_requests_per_minute"`
	ScrapeRequestsPerMinute    int `mapstructure:"scrape_requests_per_minute"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout, stderr or file path
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and configs folder
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		// Also check user's home directory
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".social-wizard"))
		}
	}

	// Environment variables
	v.SetEnvPrefix("SOCIAL")
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind underscored nested keys)
	v.BindEnv("anthropic.api_key", "SOCIAL_ANTHROPIC_API_KEY", "CLAUDE_API_KEY")
	v.BindEnv("anthropic.model", "SOCIAL_ANTHROPIC_MODEL")
	v.BindEnv("server.port", "SOCIAL_SERVER_PORT", "PORT")
	v.BindEnv("database.driver", "SOCIAL_DATABASE_DRIVER")
	v.BindEnv("database.dsn", "SOCIAL_DATABASE_DSN")
	v.BindEnv("database.mongo_uri", "SOCIAL_DATABASE_MONGO_URI")
	v.BindEnv("database.spreadsheet_id", "SOCIAL_DATABASE_SPREADSHEET_ID")
	v.BindEnv("database.credentials_file", "SOCIAL_DATABASE_CREDENTIALS_FILE")
	v.BindEnv("database.service_account_json", "SOCIAL_DATABASE_SERVICE_ACCOUNT_JSON")
	v.BindEnv("image.enabled", "SOCIAL_IMAGE_ENABLED")
	v.BindEnv("image.provider", "SOCIAL_IMAGE_PROVIDER")
	v.BindEnv("image.endpoint", "SOCIAL_IMAGE_ENDPOINT")
	v.BindEnv("image.api_key", "SOCIAL_IMAGE_API_KEY", "HUGGINGFACE_API_KEY")
	v.BindEnv("image.unsplash_api_key", "SOCIAL_IMAGE_UNSPLASH_API_KEY")
	v.BindEnv("slack.bot_token", "SOCIAL_SLACK_BOT_TOKEN", "SLACK_BOT_TOKEN")
	v.BindEnv("slack.app_token", "SOCIAL_SLACK_APP_TOKEN", "SLACK_APP_TOKEN")
	v.BindEnv("slack.channel", "SOCIAL_SLACK_CHANNEL", "SLACK_CHANNEL")
	v.BindEnv("slack.generate_url", "SOCIAL_SLACK_GENERATE_URL")
	v.BindEnv("slack.health_port", "SOCIAL_SLACK_HEALTH_PORT")
	v.BindEnv("scheduler.generate_cron", "SOCIAL_SCHEDULER_GENERATE_CRON")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "180s") // generation plus image can take a while

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/social-wizard.db")
	v.SetDefault("database.mongo_database", "social_wizard")
	v.SetDefault("database.timeout", "10s")

	// Anthropic defaults
	v.SetDefault("anthropic.model", "claude-opus-4-5-20251101")
	v.SetDefault("anthropic.max_tokens", 500)
	v.SetDefault("anthropic.timeout", "90s")

	// Image defaults
	v.SetDefault("image.enabled", false)
	v.SetDefault("image.provider", "inference")
	v.SetDefault("image.endpoint", "https://router.huggingface.co/hf-inference/models/black-forest-labs/FLUX.1-schnell")
	v.SetDefault("image.style_prefix", "Professional LinkedIn post illustration, modern flat design, clean composition, brand colors navy and coral, no text: ")
	v.SetDefault("image.seed_chars", 180)
	v.SetDefault("image.timeout", "60s")

	// Scraper defaults
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("scraper.timeout", "20s")
	v.SetDefault("scraper.max_chars", 5000)

	// Slack defaults
	v.SetDefault("slack.channel", "#general")
	v.SetDefault("slack.generate_url", "http://localhost:3000/api/generate")
	v.SetDefault("slack.timeout", "120s")
	v.SetDefault("slack.health_port", 3001)

	// Trending defaults
	v.SetDefault("trending.max_items", 10)
	v.SetDefault("trending.max_age", "72h")
	v.SetDefault("trending.timeout", "20s")

	// Scheduler defaults
	v.SetDefault("scheduler.trending_cron", "0 */6 * * *") // Every 6 hours
	v.SetDefault("scheduler.generate_cron", "")
	v.SetDefault("scheduler.health_port", 10000)

	// Rate limit defaults
	v.SetDefault("rate_limit.anthropic_requests_per_minute", 10)
	v.SetDefault("rate_limit.image_requests_per_minute", 5)
	v.SetDefault("rate_limit.scrape_requests_per_minute", 30)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
}

// Validate validates the configuration needed to generate posts
func (c *Config) Validate() error {
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("anthropic.api_key is required")
	}
	if c.Anthropic.Model == "" {
		return fmt.Errorf("anthropic.model is required")
	}
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.Image.Enabled {
		switch c.Image.Provider {
		case "inference":
			if c.Image.Endpoint == "" {
				return fmt.Errorf("image.endpoint is required for the inference provider")
			}
		case "unsplash":
			if c.Image.UnsplashAPIKey == "" {
				return fmt.Errorf("image.unsplash_api_key is required for the unsplash provider")
			}
		default:
			return fmt.Errorf("unknown image.provider %q", c.Image.Provider)
		}
	}
	return nil
}

// ValidateDatabase validates the corpus store settings only
func (c *Config) ValidateDatabase() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for %s", c.Database.Driver)
		}
	case "mongo":
		if c.Database.MongoURI == "" {
			return fmt.Errorf("database.mongo_uri is required for mongo")
		}
	case "sheets":
		if c.Database.SpreadsheetID == "" {
			return fmt.Errorf("database.spreadsheet_id is required for sheets")
		}
		if c.Database.ServiceAccountJSON == "" && c.Database.CredentialsFile == "" {
			return fmt.Errorf("sheets storage needs database.service_account_json or database.credentials_file")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	return nil
}

// ValidateSlack validates the chat integration settings
func (c *Config) ValidateSlack(socketMode bool) error {
	if c.Slack.BotToken == "" {
		return fmt.Errorf("slack.bot_token is required")
	}
	if socketMode && c.Slack.AppToken == "" {
		return fmt.Errorf("slack.app_token is required for socket mode")
	}
	return nil
}
