package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"news_server/internal/auth"
	"news_server/internal/domain"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password; callers must not be able to tell which.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SignupInput holds the fields accepted at signup.
type SignupInput struct {
	Name        string
	Email       string
	Password    string
	Preferences []string
}

// UserService implements signup, login and the per-user operations backed by
// the user directory.
type UserService struct {
	store  UserStore
	tokens *auth.Manager
	logger *slog.Logger
}

func NewUserService(store UserStore, tokens *auth.Manager, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Signup registers a new user. Returns domain.ErrEmailTaken when the email is
// already registered (case-insensitively).
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if _, err := s.store.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, domain.NewUser{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Preferences:  in.Preferences,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and returns a signed token for the user.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return token, nil
}

// Preferences returns the stored preference list for a user.
func (s *UserService) Preferences(ctx context.Context, userID string) ([]string, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Preferences, nil
}

// UpdatePreferences replaces the stored preference list. Elements are
// trimmed; empty elements are dropped.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, preferences []string) ([]string, error) {
	cleaned := make([]string, 0, len(preferences))
	for _, p := range preferences {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}

	user, err := s.store.Update(ctx, userID, domain.UserPatch{Preferences: &cleaned})
	if err != nil {
		return nil, err
	}
	return user.Preferences, nil
}

// MarkRead records an article as read; repeated calls are no-ops.
func (s *UserService) MarkRead(ctx context.Context, userID, articleID string) ([]string, error) {
	user, err := s.store.AddRead(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	return user.ReadArticles, nil
}

// MarkFavorite records an article as favorite; repeated calls are no-ops.
func (s *UserService) MarkFavorite(ctx context.Context, userID, articleID string) ([]string, error) {
	user, err := s.store.AddFavorite(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	return user.FavoriteArticles, nil
}

// ReadArticles lists the article ids the user has marked read.
func (s *UserService) ReadArticles(ctx context.Context, userID string) ([]string, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ReadArticles, nil
}

// FavoriteArticles lists the article ids the user has marked favorite.
func (s *UserService) FavoriteArticles(ctx context.Context, userID string) ([]string, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.FavoriteArticles, nil
}

// User returns the directory record for userID.
func (s *UserService) User(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.FindByID(ctx, userID)
}
