package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/services/audit"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateClient(ctx context.Context, client models.Client) (int, error) {
	args := m.Called(ctx, client)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListClients(ctx context.Context, userUID string) ([]*models.Client, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.([]*models.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) ReadClient(ctx context.Context, userUID string, id int) (*models.Client, error) {
	args := m.Called(ctx, userUID, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) UpdateClient(ctx context.Context, client models.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *RepoMock) RemoveClient(ctx context.Context, userUID string, id int) error {
	return m.Called(ctx, userUID, id).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const testUID = "a4c2a8d0-0000-4000-8000-000000000002"

func TestClient_Create(t *testing.T) {
	req := models.DummyClient{
		Name:        "ACME LLC",
		Email:       "billing@acme.test",
		PhoneNumber: "+1000000",
		Address:     "1 Main st",
	}
	expected := models.Client{
		UserUID:     testUID,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}

	t.Run("success create", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewClientService(repo, cache, audit.Nop{}, NewNoopLogger())

		repo.On("CreateClient", mock.Anything, expected).Return(42, nil).Once()

		id, err := svc.Create(context.Background(), testUID, req)
		assert.NoError(t, err)
		assert.Equal(t, 42, id)

		repo.AssertExpectations(t)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewClientService(repo, cache, audit.Nop{}, NewNoopLogger())

		repo.On("CreateClient", mock.Anything, expected).Return(0, errors.New("db down")).Once()

		_, err := svc.Create(context.Background(), testUID, req)
		assert.Error(t, err)
	})
}

func TestClient_Read(t *testing.T) {
	stored := &models.Client{ID: 42, UserUID: testUID, Name: "ACME LLC"}

	t.Run("cache hit skips repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewClientService(repo, cache, audit.Nop{}, NewNoopLogger())

		cache.On("Get", "client:"+testUID+":42", mock.Anything).
			Run(func(args mock.Arguments) {
				ptr := args.Get(1).(**models.Client)
				*ptr = stored
			}).
			Return(true, nil).Once()

		got, err := svc.Read(context.Background(), testUID, 42)
		assert.NoError(t, err)
		assert.Equal(t, stored, got)

		cache.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("cache miss reads repository and caches", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewClientService(repo, cache, audit.Nop{}, NewNoopLogger())

		cache.On("Get", "client:"+testUID+":42", mock.Anything).Return(false, nil).Once()
		repo.On("ReadClient", mock.Anything, testUID, 42).Return(stored, nil).Once()
		cache.On("Set", "client:"+testUID+":42", stored, time.Hour).Return(nil).Once()

		got, err := svc.Read(context.Background(), testUID, 42)
		assert.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("foreign id gives not found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewClientService(repo, cache, audit.Nop{}, NewNoopLogger())

		cache.On("Get", "client:"+testUID+":99", mock.Anything).Return(false, nil).Once()
		repo.On("ReadClient", mock.Anything, testUID, 99).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Read(context.Background(), testUID, 99)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestClient_Remove(t *testing.T) {
	t.Run("remove invalidates cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewClientService(repo, cache, audit.Nop{}, NewNoopLogger())

		cache.On("Invalidate", "client:"+testUID+":42").Return(nil).Once()
		repo.On("RemoveClient", mock.Anything, testUID, 42).Return(nil).Once()

		err := svc.Remove(context.Background(), testUID, 42)
		assert.NoError(t, err)

		cache.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("missing record gives not found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewClientService(repo, cache, audit.Nop{}, NewNoopLogger())

		cache.On("Invalidate", "client:"+testUID+":99").Return(nil).Once()
		repo.On("RemoveClient", mock.Anything, testUID, 99).Return(repository.ErrNotFound).Once()

		err := svc.Remove(context.Background(), testUID, 99)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
