package sqldb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/storage"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "nested", "test.db")})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestNew_UnsupportedDriver(t *testing.T) {
	repo, err := New(Config{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
	assert.Nil(t, repo)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestAddList_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first := models.NewContent(models.ContentTypeScraped, "Title: A\n\nContent:\nbody", "https://example.com/a")
	second := models.NewContent(models.ContentTypeManual, "second", "")
	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.Add(ctx, second))

	list, err := repo.List(ctx, models.KindContent)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "Title: A\n\nContent:\nbody", list[0].Body)
	assert.Equal(t, models.ContentTypeScraped, list[0].Type)
	assert.Equal(t, "https://example.com/a", list[0].SourceURL)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestList_PoolsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Add(ctx, models.NewBrandExample("brand post")))
	require.NoError(t, repo.Add(ctx, models.NewMemoryNote("never mention competitor X")))

	content, err := repo.List(ctx, models.KindContent)
	require.NoError(t, err)
	assert.Empty(t, content)

	brand, err := repo.List(ctx, models.KindBrand)
	require.NoError(t, err)
	require.Len(t, brand, 1)
	assert.Equal(t, "brand post", brand[0].Body)
}

func TestAdd_Validation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	err := repo.Add(ctx, models.NewMemoryNote(""))
	assert.True(t, errors.Is(err, storage.ErrValidation))

	err = repo.Add(ctx, models.NewContent("pdf", "body", ""))
	assert.True(t, errors.Is(err, storage.ErrValidation))

	list, err := repo.List(ctx, models.KindMemory)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTrending_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	got, err := repo.GetTrending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	require.NoError(t, repo.SetTrending(ctx, "first"))
	require.NoError(t, repo.SetTrending(ctx, "second"))
	got, err = repo.GetTrending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	require.NoError(t, repo.ClearTrending(ctx))
	got, err = repo.GetTrending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	// clearing twice is fine
	require.NoError(t, repo.ClearTrending(ctx))
}
