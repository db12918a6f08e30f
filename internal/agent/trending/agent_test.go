package trending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/source"
	"github.com/social-wizard/internal/storage/memory"
	"github.com/social-wizard/pkg/logger"
)

type stubSource struct {
	name  string
	items []*models.TrendingItem
	err   error
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Type() string { return "stub" }
func (s *stubSource) Fetch(ctx context.Context) ([]*models.TrendingItem, error) {
	return s.items, s.err
}

func item(title, src string, age time.Duration) *models.TrendingItem {
	return &models.TrendingItem{Title: title, SourceName: src, PublishedAt: time.Now().Add(-age)}
}

func TestSelect_DedupesAndKeepsNewest(t *testing.T) {
	items := []*models.TrendingItem{
		item("Old news", "A", 10*time.Hour),
		item("AI agents everywhere", "A", time.Hour),
		item("ai  AGENTS everywhere", "B", 30*time.Minute),
		item("Fresh take", "B", time.Minute),
	}

	kept := Select(items, 2)
	require.Len(t, kept, 2)
	assert.Equal(t, "Fresh take", kept[0].Title)
	assert.Equal(t, "AI agents everywhere", kept[1].Title)
}

func TestFormat(t *testing.T) {
	out := Format([]*models.TrendingItem{
		{Title: "One", SourceName: "HN"},
		{Title: "Two", SourceName: "keywords"},
	})
	assert.Equal(t, "- One (HN)\n- Two (keywords)", out)
}

func TestRefresh_StoresBlob(t *testing.T) {
	repo := memory.New()
	mgr := source.NewManager()
	mgr.Register(&stubSource{name: "A", items: []*models.TrendingItem{item("Remote work", "A", time.Hour)}})
	mgr.Register(&stubSource{name: "B", err: errors.New("feed down")})

	res, err := NewAgent(mgr, repo, 5, logger.Nop()).Refresh(t.Context())
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Sources)

	got, err := repo.GetTrending(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "- Remote work (A)", got)
}

func TestRefresh_NothingFoundLeavesBlob(t *testing.T) {
	repo := memory.New()
	require.NoError(t, repo.SetTrending(t.Context(), "keep me"))

	mgr := source.NewManager()
	mgr.Register(&stubSource{name: "A"})

	res, err := NewAgent(mgr, repo, 5, logger.Nop()).Refresh(t.Context())
	require.NoError(t, err)
	assert.False(t, res.Updated)

	got, _ := repo.GetTrending(t.Context())
	assert.Equal(t, "keep me", got)

	res, err = NewAgent(source.NewManager(), repo, 5, logger.Nop()).Refresh(t.Context())
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Zero(t, res.Sources)
}
