package custom

import (
	"context"
	"strings"
	"time"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/source"
	"github.com/social-wizard/pkg/logger"
)

// Source implements TrendingSource for operator-pinned keywords
type Source struct {
	keywords []string
	log      *logger.Logger
}

// New creates a new custom source
func New(keywords []string, log *logger.Logger) *Source {
	return &Source{
		keywords: keywords,
		log:      log.WithSource("custom", "keywords"),
	}
}

// Name returns the source name
func (s *Source) Name() string {
	return "keywords"
}

// Type returns "custom"
func (s *Source) Type() string {
	return "custom"
}

// Fetch returns the configured keywords as trending items
func (s *Source) Fetch(ctx context.Context) ([]*models.TrendingItem, error) {
	items := make([]*models.TrendingItem, 0, len(s.keywords))
	now := time.Now()

	for _, keyword := range s.keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		items = append(items, &models.TrendingItem{
			Title:       keyword,
			SourceType:  "custom",
			SourceName:  s.Name(),
			PublishedAt: now,
		})
	}

	s.log.Debug().Int("count", len(items)).Msg("Returned pinned keywords")

	return items, nil
}

// Ensure Source implements source.TrendingSource
var _ source.TrendingSource = (*Source)(nil)
