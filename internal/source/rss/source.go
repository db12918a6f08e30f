package rss

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/source"
	"github.com/social-wizard/pkg/logger"
	"github.com/social-wizard/pkg/ratelimit"
)

// Source implements TrendingSource for RSS feeds
type Source struct {
	name        string
	url         string
	maxAge      time.Duration
	parser      *gofeed.Parser
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

const defaultTimeout = 20 * time.Second

// New creates a new RSS source for a single feed.
// Items older than maxAge are dropped; zero keeps everything.
// Each fetch is bounded by timeout, or 20s when it is not positive.
func New(feed config.RSSFeed, maxAge, timeout time.Duration, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Source {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	return &Source{
		name:        feed.Name,
		url:         feed.URL,
		maxAge:      maxAge,
		parser:      parser,
		rateLimiter: limiter,
		log:         log.WithSource("rss", feed.Name),
	}
}

// NewMultiple creates one source per configured feed
func NewMultiple(cfg config.TrendingConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) []*Source {
	sources := make([]*Source, 0, len(cfg.Feeds))
	for _, feed := range cfg.Feeds {
		sources = append(sources, New(feed, cfg.MaxAge, cfg.Timeout, limiter, log))
	}
	return sources
}

// Name returns the source name
func (s *Source) Name() string {
	return s.name
}

// Type returns "rss"
func (s *Source) Type() string {
	return "rss"
}

// Fetch retrieves recent headlines from the feed
func (s *Source) Fetch(ctx context.Context) ([]*models.TrendingItem, error) {
	if s.rateLimiter != nil {
		if err := s.rateLimiter.Wait(ctx, ratelimit.LimiterRSS); err != nil {
			return nil, fmt.Errorf("rate limit error: %w", err)
		}
	}

	s.log.Debug().Str("url", s.url).Msg("Fetching RSS feed")

	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed %s: %w", s.name, err)
	}

	items := make([]*models.TrendingItem, 0, len(feed.Items))
	now := time.Now()

	for _, item := range feed.Items {
		title := cleanText(item.Title)
		if title == "" {
			continue
		}

		publishedAt := now
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}
		if s.maxAge > 0 && now.Sub(publishedAt) > s.maxAge {
			continue
		}

		items = append(items, &models.TrendingItem{
			Title:       title,
			URL:         item.Link,
			SourceType:  "rss",
			SourceName:  s.name,
			PublishedAt: publishedAt,
		})
	}

	s.log.Info().
		Int("count", len(items)).
		Str("feed", s.name).
		Msg("Fetched RSS headlines")

	return items, nil
}

// cleanText removes HTML tags and extra whitespace
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "<br>", " ")
	text = strings.ReplaceAll(text, "<br/>", " ")
	text = strings.ReplaceAll(text, "<br />", " ")
	text = strings.ReplaceAll(text, "</p>", " ")
	text = strings.ReplaceAll(text, "<p>", "")

	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
		} else if r == '>' {
			inTag = false
		} else if !inTag {
			result.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(result.String()), " ")
}

// Ensure Source implements source.TrendingSource
var _ source.TrendingSource = (*Source)(nil)
