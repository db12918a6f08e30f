package trending

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/source"
	"github.com/social-wizard/internal/storage"
	"github.com/social-wizard/pkg/logger"
)

const defaultMaxItems = 10

// Agent refreshes the trending topics blob from configured sources
type Agent struct {
	sourceManager *source.Manager
	repository    storage.Repository
	maxItems      int
	log           *logger.Logger
}

// NewAgent creates a new trending agent
func NewAgent(
	sourceManager *source.Manager,
	repository storage.Repository,
	maxItems int,
	log *logger.Logger,
) *Agent {
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	return &Agent{
		sourceManager: sourceManager,
		repository:    repository,
		maxItems:      maxItems,
		log:           log.WithComponent("trending"),
	}
}

// RefreshResult contains the results of a refresh run
type RefreshResult struct {
	Sources    int
	ItemsFound int
	ItemsKept  int
	Topics     string
	Updated    bool
	Errors     []error
	Duration   time.Duration
}

// Refresh fetches every source and replaces the trending blob.
// When nothing was found the stored blob is left untouched.
func (a *Agent) Refresh(ctx context.Context) (*RefreshResult, error) {
	startTime := time.Now()
	result := &RefreshResult{Sources: len(a.sourceManager.GetSources())}

	if result.Sources == 0 {
		a.log.Warn().Msg("No trending sources configured")
		result.Duration = time.Since(startTime)
		return result, nil
	}

	items, fetchErrors := a.sourceManager.FetchAll(ctx)
	result.Errors = fetchErrors
	result.ItemsFound = len(items)

	for _, err := range fetchErrors {
		a.log.Warn().Err(err).Msg("Trending source failed")
	}

	if len(items) == 0 {
		a.log.Warn().Msg("No trending items found from any source")
		result.Duration = time.Since(startTime)
		return result, nil
	}

	kept := Select(items, a.maxItems)
	result.ItemsKept = len(kept)
	result.Topics = Format(kept)

	if err := a.repository.SetTrending(ctx, result.Topics); err != nil {
		return result, fmt.Errorf("failed to store trending topics: %w", err)
	}
	result.Updated = true
	result.Duration = time.Since(startTime)

	a.log.Info().
		Int("items_found", result.ItemsFound).
		Int("items_kept", result.ItemsKept).
		Int("fetch_errors", len(fetchErrors)).
		Dur("duration", result.Duration).
		Msg("Trending topics refreshed")

	return result, nil
}

// Select drops duplicate titles, then keeps the newest max items
func Select(items []*models.TrendingItem, max int) []*models.TrendingItem {
	seen := make(map[string]bool)
	unique := make([]*models.TrendingItem, 0, len(items))

	for _, item := range items {
		key := source.DedupeKey(item.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, item)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].PublishedAt.After(unique[j].PublishedAt)
	})

	if max > 0 && len(unique) > max {
		unique = unique[:max]
	}
	return unique
}

// Format renders items as the stored blob, one "- title (source)" line each
func Format(items []*models.TrendingItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (%s)", item.Title, item.SourceName))
	}
	return strings.Join(lines, "\n")
}
