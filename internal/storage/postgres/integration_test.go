//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"news_server/internal/domain"
	"news_server/testdata/utils"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_users.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM users")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) newUser(email string) domain.NewUser {
	return domain.NewUser{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
		Preferences:  []string{"tech", "world"},
	}
}

func (s *PostgresIntegrationSuite) TestCreate() {
	store := NewUserStore(s.db)

	user, err := store.Create(s.ctx, s.newUser("Alice@Example.COM"))
	s.NoError(err)
	s.NotEmpty(user.ID)
	s.Equal("alice@example.com", user.Email)
	s.Equal([]string{"tech", "world"}, user.Preferences)
	s.Empty(user.ReadArticles)
	s.Empty(user.FavoriteArticles)
}

func (s *PostgresIntegrationSuite) TestCreate_DuplicateEmail() {
	store := NewUserStore(s.db)

	_, err := store.Create(s.ctx, s.newUser("a@b.com"))
	s.NoError(err)

	_, err = store.Create(s.ctx, s.newUser("A@B.com"))
	s.ErrorIs(err, domain.ErrEmailTaken)
}

func (s *PostgresIntegrationSuite) TestFindByEmail_CaseInsensitive() {
	store := NewUserStore(s.db)

	created, err := store.Create(s.ctx, s.newUser("a@b.com"))
	s.Require().NoError(err)

	found, err := store.FindByEmail(s.ctx, "A@B.com")
	s.NoError(err)
	s.Equal(created.ID, found.ID)

	_, err = store.FindByEmail(s.ctx, "missing@b.com")
	s.ErrorIs(err, domain.ErrUserNotFound)
}

func (s *PostgresIntegrationSuite) TestFindByID() {
	store := NewUserStore(s.db)

	created, err := store.Create(s.ctx, s.newUser("a@b.com"))
	s.Require().NoError(err)

	found, err := store.FindByID(s.ctx, created.ID)
	s.NoError(err)
	s.Equal("a@b.com", found.Email)

	_, err = store.FindByID(s.ctx, "999999")
	s.ErrorIs(err, domain.ErrUserNotFound)

	_, err = store.FindByID(s.ctx, "not-a-number")
	s.ErrorIs(err, domain.ErrUserNotFound)
}

func (s *PostgresIntegrationSuite) TestUpdate_PatchSemantics() {
	store := NewUserStore(s.db)

	created, err := store.Create(s.ctx, s.newUser("a@b.com"))
	s.Require().NoError(err)

	prefs := []string{"science"}
	updated, err := store.Update(s.ctx, created.ID, domain.UserPatch{Preferences: &prefs})
	s.NoError(err)
	s.Equal([]string{"science"}, updated.Preferences)
	s.Equal("Test User", updated.Name)

	updated, err = store.Update(s.ctx, created.ID, domain.UserPatch{Name: utils.Ptr("Renamed")})
	s.NoError(err)
	s.Equal("Renamed", updated.Name)
	s.Equal([]string{"science"}, updated.Preferences)
}

func (s *PostgresIntegrationSuite) TestAddRead_Idempotent() {
	store := NewUserStore(s.db)

	created, err := store.Create(s.ctx, s.newUser("a@b.com"))
	s.Require().NoError(err)

	user, err := store.AddRead(s.ctx, created.ID, "art-1")
	s.NoError(err)
	s.Equal([]string{"art-1"}, user.ReadArticles)

	user, err = store.AddRead(s.ctx, created.ID, "art-1")
	s.NoError(err)
	s.Equal([]string{"art-1"}, user.ReadArticles)
}

func (s *PostgresIntegrationSuite) TestAddFavorite_Idempotent() {
	store := NewUserStore(s.db)

	created, err := store.Create(s.ctx, s.newUser("a@b.com"))
	s.Require().NoError(err)

	user, err := store.AddFavorite(s.ctx, created.ID, "art-1")
	s.NoError(err)
	s.Equal([]string{"art-1"}, user.FavoriteArticles)

	user, err = store.AddFavorite(s.ctx, created.ID, "art-1")
	s.NoError(err)
	s.Equal([]string{"art-1"}, user.FavoriteArticles)
}

func (s *PostgresIntegrationSuite) TestConcurrentAddRead() {
	store := NewUserStore(s.db)

	created, err := store.Create(s.ctx, s.newUser("a@b.com"))
	s.Require().NoError(err)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, _ = store.AddRead(s.ctx, created.ID, "art-"+string(rune('a'+i)))
		}(i)
	}
	wg.Wait()

	user, err := store.FindByID(s.ctx, created.ID)
	s.NoError(err)
	s.Len(user.ReadArticles, n)
}
