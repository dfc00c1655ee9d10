package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"news_server/internal/domain"
	"news_server/internal/provider"
)

const (
	// cacheKeyPrefix namespaces news entries in the shared cache.
	cacheKeyPrefix = "news:"

	// SampleArticleID is the constant id of the fallback article returned
	// when every provider is unconfigured or failing.
	SampleArticleID = "sample-1"
)

// CacheKey normalizes a preference list into a canonical cache key: each
// element lower-cased, sorted lexicographically, joined with commas. Two
// lists that differ only in order or case produce the same key.
func CacheKey(preferences []string) string {
	normalized := make([]string, len(preferences))
	for i, p := range preferences {
		normalized[i] = strings.ToLower(p)
	}
	sort.Strings(normalized)
	return cacheKeyPrefix + strings.Join(normalized, ",")
}

// NewsService aggregates news from a prioritized provider chain with a
// shared TTL cache and a deterministic sample fallback.
type NewsService struct {
	providers    []Provider
	cache        NewsCache
	publisher    Publisher // may be nil
	defaultQuery string
	logger       *slog.Logger
	now          func() time.Time
}

func NewNewsService(
	providers []Provider,
	cache NewsCache,
	publisher Publisher,
	defaultQuery string,
	logger *slog.Logger,
) *NewsService {
	return &NewsService{
		providers:    providers,
		cache:        cache,
		publisher:    publisher,
		defaultQuery: defaultQuery,
		logger:       logger,
		now:          time.Now,
	}
}

// FetchForPreferences returns news for a preference list. Provider failures
// never surface: the chain falls through to sample data. The error return is
// reserved for unexpected defects in the orchestration path itself.
//
// The provider query keeps the caller's casing and order for relevance; only
// the cache key is normalized.
func (s *NewsService) FetchForPreferences(ctx context.Context, preferences []string) ([]domain.Article, error) {
	key := CacheKey(preferences)

	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug("cache hit", "key", key)
		return cached, nil
	}

	query := s.defaultQuery
	if len(preferences) > 0 {
		query = strings.Join(preferences, " OR ")
	}

	articles := s.fetchFromProviders(ctx, query)
	s.cache.Set(key, articles)

	return articles, nil
}

// fetchFromProviders walks the adapter chain in priority order: skip on
// not-configured, log and continue on failure, first success wins. When the
// chain is exhausted it returns the sample batch.
func (s *NewsService) fetchFromProviders(ctx context.Context, query string) []domain.Article {
	for _, p := range s.providers {
		if !p.Configured() {
			continue
		}

		articles, err := p.Fetch(ctx, query)
		if err != nil {
			if errors.Is(err, provider.ErrNotConfigured) {
				continue
			}
			s.logger.Warn("provider fetch failed",
				"provider", p.ID(),
				"error", err,
			)
			continue
		}

		s.logger.Info("fetched news",
			"provider", p.ID(),
			"count", len(articles),
		)
		s.publish(ctx, query, articles)
		return articles
	}

	return s.sampleArticles()
}

func (s *NewsService) publish(ctx context.Context, query string, articles []domain.Article) {
	if s.publisher == nil || len(articles) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, query, articles); err != nil {
		s.logger.Warn("publish fetched news failed", "error", err)
	}
}

func (s *NewsService) sampleArticles() []domain.Article {
	return []domain.Article{
		{
			ID:          SampleArticleID,
			Title:       "Sample News Item",
			Description: "Set GNEWS_API_KEY (preferred) or NEWS_API_KEY to fetch live news.",
			URL:         "https://example.com/news/sample",
			Source:      "sample",
			PublishedAt: s.now().UTC().Format(time.RFC3339),
		},
	}
}
