package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/payasyougo/payasyougo/internal/lib/jwt"
	"github.com/payasyougo/payasyougo/internal/lib/password"
	"github.com/payasyougo/payasyougo/internal/models"
	services "github.com/payasyougo/payasyougo/internal/services/auth"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("success register hashes password", func(t *testing.T) {
		users := new(UsersMock)
		svc := services.NewAuthService(users, newMaker())

		var saved models.User
		users.On("RegisterUser", mock.Anything, mock.AnythingOfType("models.User")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(models.User) }).
			Return("uid-1", nil).Once()

		uid, err := svc.Register(context.Background(), "a@b.c", "alice", "secret123", "ACME", "+100")
		require.NoError(t, err)
		assert.Equal(t, "uid-1", uid)
		assert.NotEqual(t, "secret123", saved.PasswordHash)
		assert.NoError(t, password.CompareHash(saved.PasswordHash, "secret123"))

		users.AssertExpectations(t)
	})

	t.Run("duplicate username propagates conflict", func(t *testing.T) {
		users := new(UsersMock)
		svc := services.NewAuthService(users, newMaker())

		users.On("RegisterUser", mock.Anything, mock.AnythingOfType("models.User")).
			Return("", repository.ErrAlreadyExists).Once()

		_, err := svc.Register(context.Background(), "a@b.c", "alice", "secret123", "", "")
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	stored := &models.User{
		UID:          "uid-1",
		Username:     "alice",
		PasswordHash: hash,
	}

	t.Run("success login returns token and user", func(t *testing.T) {
		users := new(UsersMock)
		maker := newMaker()
		svc := services.NewAuthService(users, maker)

		users.On("GetUserByUsername", mock.Anything, "alice").Return(stored, nil).Once()

		token, user, err := svc.Login(context.Background(), "alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "uid-1", user.UID)

		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "uid-1", claims.UserUID)
	})

	t.Run("wrong password gives invalid credentials", func(t *testing.T) {
		users := new(UsersMock)
		svc := services.NewAuthService(users, newMaker())

		users.On("GetUserByUsername", mock.Anything, "alice").Return(stored, nil).Once()

		_, _, err := svc.Login(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown user gives invalid credentials", func(t *testing.T) {
		users := new(UsersMock)
		svc := services.NewAuthService(users, newMaker())

		users.On("GetUserByUsername", mock.Anything, "bob").Return(nil, repository.ErrNotFound).Once()

		_, _, err := svc.Login(context.Background(), "bob", "secret123")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("storage failure is not credentials error", func(t *testing.T) {
		users := new(UsersMock)
		svc := services.NewAuthService(users, newMaker())

		users.On("GetUserByUsername", mock.Anything, "alice").Return(nil, errors.New("db down")).Once()

		_, _, err := svc.Login(context.Background(), "alice", "secret123")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
	})
}
