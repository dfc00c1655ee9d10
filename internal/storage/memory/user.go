// Package memory holds the in-memory user directory, the default store when
// no database is configured.
package memory

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"news_server/internal/domain"
)

// UserStore keeps user records in process memory. Ids are assigned from a
// monotonic counter and never reused. All operations hand out defensive
// copies and serialize through a single mutex.
type UserStore struct {
	mu     sync.Mutex
	seq    int64
	users  map[string]*domain.User
	emails map[string]string // lower-cased email -> id
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:  make(map[string]*domain.User),
		emails: make(map[string]string),
	}
}

func (s *UserStore) Create(_ context.Context, u domain.NewUser) (*domain.User, error) {
	email := strings.ToLower(u.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[email]; exists {
		return nil, domain.ErrEmailTaken
	}

	s.seq++
	user := &domain.User{
		ID:               strconv.FormatInt(s.seq, 10),
		Name:             u.Name,
		Email:            email,
		PasswordHash:     u.PasswordHash,
		Preferences:      append([]string{}, u.Preferences...),
		ReadArticles:     []string{},
		FavoriteArticles: []string{},
	}

	s.users[user.ID] = user
	s.emails[email] = user.ID

	return user.Clone(), nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.users[id].Clone(), nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *UserStore) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Preferences != nil {
		user.Preferences = append([]string{}, (*patch.Preferences)...)
	}

	return user.Clone(), nil
}

func (s *UserStore) AddRead(_ context.Context, id, articleID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	user.ReadArticles = appendUnique(user.ReadArticles, articleID)
	return user.Clone(), nil
}

func (s *UserStore) AddFavorite(_ context.Context, id, articleID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	user.FavoriteArticles = appendUnique(user.FavoriteArticles, articleID)
	return user.Clone(), nil
}

func appendUnique(list []string, item string) []string {
	for _, v := range list {
		if v == item {
			return list
		}
	}
	return append(list, item)
}
