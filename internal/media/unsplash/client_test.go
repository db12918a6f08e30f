package unsplash

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-wizard/internal/media"
	"github.com/social-wizard/pkg/logger"
)

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "We tested SMS vs email Conversion rose 12", SearchQuery("We tested SMS vs. email! Conversion rose 12% overall."))
	assert.Equal(t, "", SearchQuery("  ...  "))
}

func TestRender_SearchesAndDownloads(t *testing.T) {
	var srv *httptest.Server
	var query string
	triggered := false

	mux := http.NewServeMux()
	mux.HandleFunc("/search/photos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Client-ID key", r.Header.Get("Authorization"))
		query = r.URL.Query().Get("query")
		_ = json.NewEncoder(w).Encode(SearchResult{
			Total: 1,
			Results: []Photo{{
				ID:    "p1",
				URLs:  URLs{Regular: srv.URL + "/img/p1.jpg"},
				User:  User{Name: "Ada"},
				Links: Links{DownloadLocation: srv.URL + "/photos/p1/download"},
			}},
		})
	})
	mux.HandleFunc("/photos/p1/download", func(w http.ResponseWriter, r *http.Request) {
		triggered = true
	})
	mux.HandleFunc("/img/p1.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff, 0xe0})
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient("key", srv.URL, time.Second, logger.Nop())
	data, mime, err := c.Render(t.Context(), media.Request{Seed: "Remote teams ship faster"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0xe0}, data)
	assert.Equal(t, "image/jpeg", mime)
	assert.Equal(t, "Remote teams ship faster", query)
	assert.True(t, triggered)
}

func TestRender_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total":0,"results":[]}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, time.Second, logger.Nop())
	_, _, err := c.Render(t.Context(), media.Request{Seed: "nothing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no photos found")
}

func TestAttribution(t *testing.T) {
	assert.Equal(t, "Photo by Ada on Unsplash", Attribution(&Photo{User: User{Name: "Ada"}}))
}
