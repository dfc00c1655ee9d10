package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"news_server/internal/auth"
	"news_server/internal/domain"
	"news_server/internal/service/mocks"
)

type UserServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	store  *mocks.MockUserStore
	tokens *auth.Manager

	service *UserService
}

func (s *UserServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockUserStore(s.ctrl)
	s.tokens = auth.NewManager("test-secret", 2*time.Hour)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.service = NewUserService(s.store, s.tokens, logger)
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) TestSignup() {
	ctx := context.Background()

	s.store.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, domain.ErrUserNotFound)
	s.store.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u domain.NewUser) (*domain.User, error) {
			s.Equal("Alice", u.Name)
			s.Equal("alice@example.com", u.Email)
			s.NoError(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))
			return &domain.User{ID: "1", Name: u.Name, Email: u.Email, Preferences: u.Preferences}, nil
		},
	)

	user, err := s.service.Signup(ctx, SignupInput{
		Name:        "Alice",
		Email:       "alice@example.com",
		Password:    "secret123",
		Preferences: []string{"tech"},
	})

	s.NoError(err)
	s.Equal("1", user.ID)
}

func (s *UserServiceTestSuite) TestSignup_EmailTaken() {
	ctx := context.Background()

	s.store.EXPECT().FindByEmail(ctx, "alice@example.com").Return(&domain.User{ID: "1"}, nil)

	_, err := s.service.Signup(ctx, SignupInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})

	s.ErrorIs(err, domain.ErrEmailTaken)
}

func (s *UserServiceTestSuite) TestLogin() {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	s.Require().NoError(err)

	s.store.EXPECT().FindByEmail(ctx, "alice@example.com").Return(&domain.User{
		ID:           "42",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
	}, nil)

	token, err := s.service.Login(ctx, "alice@example.com", "secret123")
	s.NoError(err)

	userID, err := s.tokens.VerifyToken(token)
	s.NoError(err)
	s.Equal("42", userID)
}

func (s *UserServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	s.Require().NoError(err)

	s.store.EXPECT().FindByEmail(ctx, "alice@example.com").Return(&domain.User{
		ID:           "42",
		PasswordHash: string(hash),
	}, nil)

	_, err = s.service.Login(ctx, "alice@example.com", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *UserServiceTestSuite) TestLogin_UnknownEmail() {
	ctx := context.Background()

	s.store.EXPECT().FindByEmail(ctx, "nobody@example.com").Return(nil, domain.ErrUserNotFound)

	_, err := s.service.Login(ctx, "nobody@example.com", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *UserServiceTestSuite) TestUpdatePreferences_CleansInput() {
	ctx := context.Background()

	s.store.EXPECT().Update(ctx, "42", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, patch domain.UserPatch) (*domain.User, error) {
			s.Require().NotNil(patch.Preferences)
			s.Equal([]string{"tech", "world"}, *patch.Preferences)
			return &domain.User{ID: "42", Preferences: *patch.Preferences}, nil
		},
	)

	prefs, err := s.service.UpdatePreferences(ctx, "42", []string{" tech ", "", "world"})
	s.NoError(err)
	s.Equal([]string{"tech", "world"}, prefs)
}

func (s *UserServiceTestSuite) TestMarkRead() {
	ctx := context.Background()

	s.store.EXPECT().AddRead(ctx, "42", "art-1").Return(&domain.User{
		ID:           "42",
		ReadArticles: []string{"art-1"},
	}, nil)

	read, err := s.service.MarkRead(ctx, "42", "art-1")
	s.NoError(err)
	s.Equal([]string{"art-1"}, read)
}

func (s *UserServiceTestSuite) TestMarkRead_UserNotFound() {
	ctx := context.Background()

	s.store.EXPECT().AddRead(ctx, "99", "art-1").Return(nil, domain.ErrUserNotFound)

	_, err := s.service.MarkRead(ctx, "99", "art-1")
	s.ErrorIs(err, domain.ErrUserNotFound)
}

func (s *UserServiceTestSuite) TestFavoriteArticles() {
	ctx := context.Background()

	s.store.EXPECT().FindByID(ctx, "42").Return(&domain.User{
		ID:               "42",
		FavoriteArticles: []string{"art-1", "art-2"},
	}, nil)

	favs, err := s.service.FavoriteArticles(ctx, "42")
	s.NoError(err)
	s.Equal([]string{"art-1", "art-2"}, favs)
}
