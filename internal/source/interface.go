package source

import (
	"context"
	"strings"

	"github.com/social-wizard/internal/models"
)

// TrendingSource defines the interface for trending headline sources
type TrendingSource interface {
	// Name returns the unique name of this source
	Name() string

	// Type returns the source type (rss, custom)
	Type() string

	// Fetch retrieves current headlines from the source
	Fetch(ctx context.Context) ([]*models.TrendingItem, error)
}

// DedupeKey normalizes a headline for duplicate detection
func DedupeKey(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

// Manager manages multiple trending sources
type Manager struct {
	sources []TrendingSource
}

// NewManager creates a new source manager
func NewManager() *Manager {
	return &Manager{
		sources: make([]TrendingSource, 0),
	}
}

// Register adds a source to the manager
func (m *Manager) Register(source TrendingSource) {
	m.sources = append(m.sources, source)
}

// GetSources returns all registered sources
func (m *Manager) GetSources() []TrendingSource {
	return m.sources
}

// FetchAll fetches items from all sources concurrently.
// Items keep registration order across sources.
func (m *Manager) FetchAll(ctx context.Context) ([]*models.TrendingItem, []error) {
	type result struct {
		items []*models.TrendingItem
		err   error
	}

	results := make([]result, len(m.sources))
	done := make(chan struct{}, len(m.sources))

	for i, source := range m.sources {
		go func(i int, s TrendingSource) {
			items, err := s.Fetch(ctx)
			results[i] = result{items: items, err: err}
			done <- struct{}{}
		}(i, source)
	}
	for range m.sources {
		<-done
	}

	var allItems []*models.TrendingItem
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
		} else {
			allItems = append(allItems, r.items...)
		}
	}

	return allItems, errs
}
