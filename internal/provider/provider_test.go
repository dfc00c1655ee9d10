package provider

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestGNews_NotConfigured(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	g := NewGNews(GNewsConfig{BaseURL: srv.URL, PageSize: 20, Timeout: time.Second}, testLogger())

	require.False(t, g.Configured())

	articles, err := g.Fetch(context.Background(), "golang")
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, articles)
	assert.False(t, called, "unconfigured adapter must not issue network calls")
}

func TestGNews_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Tech OR world", q.Get("q"))
		assert.Equal(t, "en", q.Get("lang"))
		assert.Equal(t, "20", q.Get("max"))
		assert.Equal(t, "publishedAt", q.Get("sortby"))
		assert.Equal(t, "test-key", q.Get("token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"totalArticles": 2,
			"articles": [
				{
					"title": "First",
					"description": "first description",
					"url": "https://example.com/first",
					"publishedAt": "2025-08-30T10:00:00Z",
					"source": {"name": "Example News"}
				},
				{
					"title": "Second",
					"description": "second description",
					"url": "https://example.com/second",
					"publishedAt": "2025-08-30T09:00:00Z",
					"source": {"name": ""}
				}
			]
		}`))
	}))
	defer srv.Close()

	g := NewGNews(GNewsConfig{APIKey: "test-key", BaseURL: srv.URL, PageSize: 20, Timeout: time.Second}, testLogger())

	articles, err := g.Fetch(context.Background(), "Tech OR world")
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "https://example.com/first", articles[0].ID)
	assert.Equal(t, "First", articles[0].Title)
	assert.Equal(t, "first description", articles[0].Description)
	assert.Equal(t, "Example News", articles[0].Source)
	assert.Equal(t, "2025-08-30T10:00:00Z", articles[0].PublishedAt)

	assert.Equal(t, "unknown", articles[1].Source)
}

func TestGNews_FetchNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors":["bad token"]}`))
	}))
	defer srv.Close()

	g := NewGNews(GNewsConfig{APIKey: "bad", BaseURL: srv.URL, PageSize: 20, Timeout: time.Second}, testLogger())

	_, err := g.Fetch(context.Background(), "golang")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "403")
}

func TestNewsAPI_NotConfigured(t *testing.T) {
	n := NewNewsAPI(NewsAPIConfig{BaseURL: "http://localhost:0", PageSize: 20, Timeout: time.Second}, testLogger())

	require.False(t, n.Configured())

	_, err := n.Fetch(context.Background(), "golang")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewsAPI_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "golang", q.Get("q"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "20", q.Get("pageSize"))
		assert.Equal(t, "publishedAt", q.Get("sortBy"))
		assert.Equal(t, "test-key", q.Get("apiKey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"totalResults": 1,
			"articles": [
				{
					"source": {"id": "example", "name": "Example"},
					"title": "Story",
					"description": "story description",
					"url": "https://example.com/story",
					"publishedAt": "2025-08-30T08:00:00Z"
				}
			]
		}`))
	}))
	defer srv.Close()

	n := NewNewsAPI(NewsAPIConfig{APIKey: "test-key", BaseURL: srv.URL, PageSize: 20, Timeout: time.Second}, testLogger())

	articles, err := n.Fetch(context.Background(), "golang")
	require.NoError(t, err)
	require.Len(t, articles, 1)

	assert.Equal(t, "https://example.com/story", articles[0].ID)
	assert.Equal(t, "Example", articles[0].Source)
}

func TestNewsAPI_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use: connection refused

	n := NewNewsAPI(NewsAPIConfig{APIKey: "test-key", BaseURL: srv.URL, PageSize: 20, Timeout: time.Second}, testLogger())

	_, err := n.Fetch(context.Background(), "golang")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}
