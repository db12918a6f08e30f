package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/pkg/logger"
)

// fakeSheets serves just enough of the Sheets v4 values API for one tab
type fakeSheets struct {
	mu       sync.Mutex
	rows     [][]interface{}
	trending [][]interface{}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPut && strings.Contains(r.URL.Path, trendingSheetName):
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.trending = body.Values
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, trendingSheetName):
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"values": f.trending})
	case r.Method == http.MethodPost && strings.Contains(r.URL.Path, ":append"):
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.rows = append(f.rows, body.Values...)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"values": f.rows})
	default:
		http.NotFound(w, r)
	}
}

func newTestRepo(t *testing.T, fake *fakeSheets) *Repository {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	repo, err := New(Config{
		SpreadsheetID: "sheet-1",
		Options: []option.ClientOption{
			option.WithEndpoint(srv.URL + "/"),
			option.WithHTTPClient(srv.Client()),
			option.WithoutAuthentication(),
		},
	}, logger.Nop())
	require.NoError(t, err)
	return repo
}

func TestNew_NoCredentials(t *testing.T) {
	_, err := New(Config{SpreadsheetID: "x"}, logger.Nop())
	assert.Error(t, err)
}

func TestAddThenList(t *testing.T) {
	fake := &fakeSheets{}
	repo := newTestRepo(t, fake)
	ctx := context.Background()

	doc := models.NewContent(models.ContentTypeScraped, "Title: T\n\nContent:\nbody", "https://example.com")
	require.NoError(t, repo.Add(ctx, doc))
	require.Len(t, fake.rows, 1)

	list, err := repo.List(ctx, models.KindContent)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, doc.ID, list[0].ID)
	assert.Equal(t, doc.Body, list[0].Body)
	assert.Equal(t, models.ContentTypeScraped, list[0].Type)
	assert.Equal(t, "https://example.com", list[0].SourceURL)
}

func TestTrendingStoredVerbatim(t *testing.T) {
	repo := newTestRepo(t, &fakeSheets{})
	ctx := context.Background()

	got, err := repo.GetTrending(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	blob := "  - AI agents (HN)\n- Retail media (Tech)\n"
	require.NoError(t, repo.SetTrending(ctx, blob))

	got, err = repo.GetTrending(ctx)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestRowConversion(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	doc := &models.Document{ID: "abc", Kind: models.KindMemory, Body: "note", CreatedAt: created}

	got := rowToDocument(models.KindMemory, documentToRow(doc))
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, "note", got.Body)
	assert.True(t, created.Equal(got.CreatedAt))

	assert.Nil(t, rowToDocument(models.KindMemory, []interface{}{}))
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(1))
	assert.Equal(t, "E", columnLetter(5))
	assert.Equal(t, "Z", columnLetter(26))
	assert.Equal(t, "AA", columnLetter(27))
}
