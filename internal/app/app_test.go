package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/pkg/logger"
)

func TestOpenRepository_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "corpus.db")
	repo, err := OpenRepository(t.Context(), config.DatabaseConfig{Driver: "sqlite", DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Add(t.Context(), models.NewMemoryNote("note")))
	docs, err := repo.List(t.Context(), models.KindMemory)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestOpenRepository_Memory(t *testing.T) {
	repo, err := OpenRepository(t.Context(), config.DatabaseConfig{Driver: "memory"}, logger.Nop())
	require.NoError(t, err)
	assert.NoError(t, repo.Close())
}

func TestOpenRepository_Unknown(t *testing.T) {
	_, err := OpenRepository(t.Context(), config.DatabaseConfig{Driver: "redis"}, logger.Nop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewImageGenerator(t *testing.T) {
	gen, err := NewImageGenerator(config.ImageConfig{Enabled: false}, nil, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = NewImageGenerator(config.ImageConfig{Enabled: true, Provider: "unsplash", UnsplashAPIKey: "k"}, nil, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, gen)

	_, err = NewImageGenerator(config.ImageConfig{Enabled: true, Provider: "dalle"}, nil, logger.Nop())
	assert.Error(t, err)
}

func TestNewSlackNotifier(t *testing.T) {
	assert.Nil(t, NewSlackNotifier(config.SlackConfig{}, nil, logger.Nop()))
	assert.NotNil(t, NewSlackNotifier(config.SlackConfig{BotToken: "xoxb-test", Channel: "#general"}, nil, logger.Nop()))
}

func TestNewTrendingAgent_NoSources(t *testing.T) {
	repo, err := OpenRepository(t.Context(), config.DatabaseConfig{Driver: "memory"}, logger.Nop())
	require.NoError(t, err)

	res, err := NewTrendingAgent(config.TrendingConfig{}, repo, nil, logger.Nop()).Refresh(t.Context())
	require.NoError(t, err)
	assert.False(t, res.Updated)
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := HealthHandler("social-wizard scheduler")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "social-wizard scheduler", w.Body.String())
}

func TestHealthPort(t *testing.T) {
	t.Setenv("PORT", "")
	assert.Equal(t, 3001, HealthPort(3001))

	t.Setenv("PORT", "8080")
	assert.Equal(t, 8080, HealthPort(3001))

	t.Setenv("PORT", "eighty")
	assert.Equal(t, 3001, HealthPort(3001))
}
