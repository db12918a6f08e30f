package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/storage"
)

func TestAddThenListRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := New()

	doc := models.NewContent(models.ContentTypeManual, "  keep my   spacing  ", "")
	require.NoError(t, repo.Add(ctx, doc))
	require.NotEmpty(t, doc.ID)
	require.False(t, doc.CreatedAt.IsZero())

	list, err := repo.List(ctx, models.KindContent)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, doc.ID, list[0].ID)
	assert.Equal(t, "  keep my   spacing  ", list[0].Body)
}

func TestListEmptyPool(t *testing.T) {
	list, err := New().List(context.Background(), models.KindMemory)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestAddRejectsEmptyBody(t *testing.T) {
	err := New().Add(context.Background(), models.NewBrandExample("   "))
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrValidation))
}

func TestListKeepsCreationOrderAndDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := New()
	for _, body := range []string{"a", "b", "a"} {
		require.NoError(t, repo.Add(ctx, models.NewMemoryNote(body)))
	}

	list, err := repo.List(ctx, models.KindMemory)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Body)
	assert.Equal(t, "b", list[1].Body)
	assert.Equal(t, "a", list[2].Body)
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := New()
	require.NoError(t, repo.Add(ctx, models.NewMemoryNote("original")))

	list, _ := repo.List(ctx, models.KindMemory)
	list[0].Body = "mutated"

	again, _ := repo.List(ctx, models.KindMemory)
	assert.Equal(t, "original", again[0].Body)
}

func TestTrendingLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := New()

	got, err := repo.GetTrending(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, repo.SetTrending(ctx, "AI agents"))
	require.NoError(t, repo.SetTrending(ctx, "SMS marketing"))
	got, _ = repo.GetTrending(ctx)
	assert.Equal(t, "SMS marketing", got)

	require.NoError(t, repo.ClearTrending(ctx))
	got, _ = repo.GetTrending(ctx)
	assert.Empty(t, got)
}

func TestConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	repo := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Add(ctx, models.NewContent(models.ContentTypeManual, "note", ""))
		}()
	}
	wg.Wait()

	list, err := repo.List(ctx, models.KindContent)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
