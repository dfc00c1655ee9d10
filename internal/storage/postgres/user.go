// Package postgres holds the database-backed user directory, selected when a
// database host is configured.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"news_server/internal/domain"
)

const uniqueViolation = "23505"

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

type userRow struct {
	ID               int64          `db:"id"`
	Name             string         `db:"name"`
	Email            string         `db:"email"`
	PasswordHash     string         `db:"password_hash"`
	Preferences      pq.StringArray `db:"preferences"`
	ReadArticles     pq.StringArray `db:"read_articles"`
	FavoriteArticles pq.StringArray `db:"favorite_articles"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:               strconv.FormatInt(r.ID, 10),
		Name:             r.Name,
		Email:            r.Email,
		PasswordHash:     r.PasswordHash,
		Preferences:      append([]string{}, r.Preferences...),
		ReadArticles:     append([]string{}, r.ReadArticles...),
		FavoriteArticles: append([]string{}, r.FavoriteArticles...),
	}
}

const userColumns = "id, name, email, password_hash, preferences, read_articles, favorite_articles"

func (s *UserStore) Create(ctx context.Context, u domain.NewUser) (*domain.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, preferences)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var row userRow
	err := s.db.GetContext(ctx, &row, query,
		u.Name,
		strings.ToLower(u.Email),
		u.PasswordHash,
		pq.StringArray(u.Preferences),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	return row.toDomain(), nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var row userRow
	err := s.db.GetContext(ctx, &row, query, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	numericID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var row userRow
	err := s.db.GetContext(ctx, &row, query, numericID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *UserStore) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	numericID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	query := `
		UPDATE users SET
			name = COALESCE($2, name),
			preferences = COALESCE($3, preferences),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	var prefs *pq.StringArray
	if patch.Preferences != nil {
		arr := pq.StringArray(*patch.Preferences)
		prefs = &arr
	}

	var row userRow
	err := s.db.GetContext(ctx, &row, query, numericID, patch.Name, prefs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *UserStore) AddRead(ctx context.Context, id, articleID string) (*domain.User, error) {
	return s.addToSet(ctx, id, articleID, "read_articles")
}

func (s *UserStore) AddFavorite(ctx context.Context, id, articleID string) (*domain.User, error) {
	return s.addToSet(ctx, id, articleID, "favorite_articles")
}

// addToSet appends articleID to the named array column unless it is already
// present. The single UPDATE keeps concurrent appends for the same user from
// losing each other.
func (s *UserStore) addToSet(ctx context.Context, id, articleID, column string) (*domain.User, error) {
	numericID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	query := `
		UPDATE users SET
			` + column + ` = CASE
				WHEN $2 = ANY(` + column + `) THEN ` + column + `
				ELSE array_append(` + column + `, $2)
			END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	var row userRow
	err := s.db.GetContext(ctx, &row, query, numericID, articleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
