package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"news_server/internal/domain"
)

const GNewsID = "gnews"

// GNewsConfig holds GNews adapter configuration.
type GNewsConfig struct {
	APIKey   string
	BaseURL  string
	PageSize int
	Timeout  time.Duration
}

// GNews adapts the GNews search API into the canonical article shape.
type GNews struct {
	apiKey   string
	pageSize int
	client   *resty.Client
	logger   *slog.Logger
}

func NewGNews(cfg GNewsConfig, logger *slog.Logger) *GNews {
	return &GNews{
		apiKey:   cfg.APIKey,
		pageSize: cfg.PageSize,
		client:   newClient(cfg.BaseURL, cfg.Timeout),
		logger:   logger.With("provider", GNewsID),
	}
}

// ID returns the provider identifier.
func (g *GNews) ID() string {
	return GNewsID
}

// Configured reports whether the adapter has a credential.
func (g *GNews) Configured() bool {
	return g.apiKey != ""
}

// Fetch issues a single search request and maps the result. It returns
// ErrNotConfigured without any network call when the credential is absent.
func (g *GNews) Fetch(ctx context.Context, query string) ([]domain.Article, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"lang":   "en",
			"max":    strconv.Itoa(g.pageSize),
			"sortby": "publishedAt",
			"token":  g.apiKey,
		}).
		SetResult(&gnewsResponse{}).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), responseSnippet(resp.Body()))
	}

	result, ok := resp.Result().(*gnewsResponse)
	if !ok {
		return nil, fmt.Errorf("decode response: unexpected result type")
	}

	g.logger.Debug("fetched articles", "count", len(result.Articles))

	return g.transform(result.Articles), nil
}

func (g *GNews) transform(items []gnewsArticle) []domain.Article {
	articles := make([]domain.Article, 0, len(items))

	for _, item := range items {
		source := item.Source.Name
		if source == "" {
			source = fallbackSource
		}

		articles = append(articles, domain.Article{
			ID:          item.URL,
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			Source:      source,
			PublishedAt: item.PublishedAt,
		})
	}

	return articles
}
