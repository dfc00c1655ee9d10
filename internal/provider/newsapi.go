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

const NewsAPIID = "newsapi"

// NewsAPIConfig holds NewsAPI adapter configuration.
type NewsAPIConfig struct {
	APIKey   string
	BaseURL  string
	PageSize int
	Timeout  time.Duration
}

// NewsAPI adapts the NewsAPI "everything" endpoint into the canonical
// article shape.
type NewsAPI struct {
	apiKey   string
	pageSize int
	client   *resty.Client
	logger   *slog.Logger
}

func NewNewsAPI(cfg NewsAPIConfig, logger *slog.Logger) *NewsAPI {
	return &NewsAPI{
		apiKey:   cfg.APIKey,
		pageSize: cfg.PageSize,
		client:   newClient(cfg.BaseURL, cfg.Timeout),
		logger:   logger.With("provider", NewsAPIID),
	}
}

// ID returns the provider identifier.
func (n *NewsAPI) ID() string {
	return NewsAPIID
}

// Configured reports whether the adapter has a credential.
func (n *NewsAPI) Configured() bool {
	return n.apiKey != ""
}

// Fetch issues a single search request and maps the result. It returns
// ErrNotConfigured without any network call when the credential is absent.
func (n *NewsAPI) Fetch(ctx context.Context, query string) ([]domain.Article, error) {
	if !n.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        query,
			"language": "en",
			"pageSize": strconv.Itoa(n.pageSize),
			"sortBy":   "publishedAt",
			"apiKey":   n.apiKey,
		}).
		SetResult(&newsAPIResponse{}).
		Get("/everything")
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), responseSnippet(resp.Body()))
	}

	result, ok := resp.Result().(*newsAPIResponse)
	if !ok {
		return nil, fmt.Errorf("decode response: unexpected result type")
	}

	n.logger.Debug("fetched articles", "count", len(result.Articles))

	return n.transform(result.Articles), nil
}

func (n *NewsAPI) transform(items []newsAPIArticle) []domain.Article {
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
