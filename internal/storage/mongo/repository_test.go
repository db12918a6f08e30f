package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/pkg/logger"
)

// Runs only against a live server: SOCIAL_TEST_MONGO_URI=mongodb://localhost:27017
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	uri := os.Getenv("SOCIAL_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SOCIAL_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	repo, err := New(ctx, Config{
		URI:      uri,
		Database: fmt.Sprintf("social_wizard_test_%d", time.Now().UnixNano()),
		Timeout:  5 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() {
		_ = repo.db.Drop(context.Background())
		_ = repo.Close()
	})
	return repo
}

func TestMongo_AddList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, models.NewContent(models.ContentTypeManual, "one", "")))
	require.NoError(t, repo.Add(ctx, models.NewContent(models.ContentTypeManual, "two", "")))

	list, err := repo.List(ctx, models.KindContent)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "one", list[0].Body)
	assert.Equal(t, "two", list[1].Body)

	empty, err := repo.List(ctx, models.KindBrand)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMongo_Trending(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetTrending(ctx, "a"))
	require.NoError(t, repo.SetTrending(ctx, "b"))
	got, err := repo.GetTrending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	require.NoError(t, repo.ClearTrending(ctx))
	got, err = repo.GetTrending(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
