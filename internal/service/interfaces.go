package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"news_server/internal/domain"
)

// Provider is a news provider adapter. Implementations must return
// provider.ErrNotConfigured from Fetch when no credential is present.
type Provider interface {
	ID() string
	Configured() bool
	Fetch(ctx context.Context, query string) ([]domain.Article, error)
}

// NewsCache stores aggregated article batches keyed by normalized
// preference key.
type NewsCache interface {
	Get(key string) ([]domain.Article, bool)
	Set(key string, articles []domain.Article)
}

// UserStore is the user directory. All mutations are atomic per record and
// every returned record is a defensive copy.
type UserStore interface {
	Create(ctx context.Context, u domain.NewUser) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	AddRead(ctx context.Context, id, articleID string) (*domain.User, error)
	AddFavorite(ctx context.Context, id, articleID string) (*domain.User, error)
}

// Publisher receives freshly fetched article batches for downstream
// consumers. Optional: a nil Publisher disables publishing.
type Publisher interface {
	Publish(ctx context.Context, query string, articles []domain.Article) error
	Close() error
}
