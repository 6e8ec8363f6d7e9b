package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/services/audit"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetTaxEstimation(ctx context.Context, userUID string) (*models.TaxEstimation, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.TaxEstimation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) CreateTaxEstimation(ctx context.Context, record models.TaxEstimation) error {
	return m.Called(ctx, record).Error(0)
}

func (m *RepoMock) UpdateTaxEstimation(ctx context.Context, record models.TaxEstimation) error {
	return m.Called(ctx, record).Error(0)
}

func (m *RepoMock) SumPaidInvoices(ctx context.Context, userUID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userUID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
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

const testUID = "a4c2a8d0-0000-4000-8000-000000000001"

func anyRecord() any {
	return mock.AnythingOfType("models.TaxEstimation")
}

func TestTaxEstimation_Create(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		income     decimal.Decimal
		wantAmount string
		setupMocks func(repo *RepoMock, cache *CacheMock)
		wantErr    error
	}{
		{
			name:       "success create computes amount",
			percentage: 15,
			income:     decimal.NewFromInt(10000),
			wantAmount: "1500",
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				repo.On("SumPaidInvoices", mock.Anything, testUID).Return(decimal.NewFromInt(10000), nil).Once()
				repo.On("CreateTaxEstimation", mock.Anything, anyRecord()).Return(nil).Once()
				cache.On("Set", "tax_estimation:"+testUID, mock.Anything, time.Hour).Return(nil).Once()
			},
		},
		{
			name:       "zero percentage is valid",
			percentage: 0,
			income:     decimal.NewFromInt(10000),
			wantAmount: "0",
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				repo.On("SumPaidInvoices", mock.Anything, testUID).Return(decimal.NewFromInt(10000), nil).Once()
				repo.On("CreateTaxEstimation", mock.Anything, anyRecord()).Return(nil).Once()
				cache.On("Set", "tax_estimation:"+testUID, mock.Anything, time.Hour).Return(nil).Once()
			},
		},
		{
			name:       "hundred percentage is valid",
			percentage: 100,
			income:     decimal.NewFromInt(250),
			wantAmount: "250",
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				repo.On("SumPaidInvoices", mock.Anything, testUID).Return(decimal.NewFromInt(250), nil).Once()
				repo.On("CreateTaxEstimation", mock.Anything, anyRecord()).Return(nil).Once()
				cache.On("Set", "tax_estimation:"+testUID, mock.Anything, time.Hour).Return(nil).Once()
			},
		},
		{
			name:       "amount rounds to two decimals",
			percentage: 33.33,
			income:     decimal.NewFromInt(1000),
			wantAmount: "333.3",
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				repo.On("SumPaidInvoices", mock.Anything, testUID).Return(decimal.NewFromInt(1000), nil).Once()
				repo.On("CreateTaxEstimation", mock.Anything, anyRecord()).Return(nil).Once()
				cache.On("Set", "tax_estimation:"+testUID, mock.Anything, time.Hour).Return(nil).Once()
			},
		},
		{
			name:       "negative percentage rejected",
			percentage: -1,
			setupMocks: func(repo *RepoMock, cache *CacheMock) {},
			wantErr:    ErrInvalidPercentage,
		},
		{
			name:       "percentage above hundred rejected",
			percentage: 100.01,
			setupMocks: func(repo *RepoMock, cache *CacheMock) {},
			wantErr:    ErrInvalidPercentage,
		},
		{
			name:       "existing record gives conflict",
			percentage: 20,
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				repo.On("SumPaidInvoices", mock.Anything, testUID).Return(decimal.NewFromInt(100), nil).Once()
				repo.On("CreateTaxEstimation", mock.Anything, anyRecord()).Return(repository.ErrAlreadyExists).Once()
			},
			wantErr: repository.ErrAlreadyExists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, audit.Nop{}, NewNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.Create(context.Background(), testUID, tt.percentage)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantAmount, got.EstimatedAmountSetAside.String())
				assert.True(t, decimal.NewFromFloat(tt.percentage).Equal(got.TaxPercentage))
				assert.WithinDuration(t, time.Now().UTC(), got.LastCalculatedAt, time.Minute)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestTaxEstimation_Update(t *testing.T) {
	t.Run("missing record gives not found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, audit.Nop{}, NewNoopLogger())

		repo.On("SumPaidInvoices", mock.Anything, testUID).Return(decimal.NewFromInt(500), nil).Once()
		repo.On("UpdateTaxEstimation", mock.Anything, anyRecord()).Return(repository.ErrNotFound).Once()

		_, err := svc.Update(context.Background(), testUID, 10)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		repo.AssertExpectations(t)
	})

	t.Run("update recomputes from current income", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, audit.Nop{}, NewNoopLogger())

		var saved models.TaxEstimation
		repo.On("SumPaidInvoices", mock.Anything, testUID).Return(decimal.NewFromFloat(1234.56), nil).Once()
		repo.On("UpdateTaxEstimation", mock.Anything, anyRecord()).
			Run(func(args mock.Arguments) { saved = args.Get(1).(models.TaxEstimation) }).
			Return(nil).Once()
		cache.On("Set", "tax_estimation:"+testUID, mock.Anything, time.Hour).Return(nil).Once()

		got, err := svc.Update(context.Background(), testUID, 25)
		assert.NoError(t, err)
		assert.Equal(t, "308.64", got.EstimatedAmountSetAside.String())
		assert.True(t, saved.EstimatedAmountSetAside.Equal(got.EstimatedAmountSetAside))

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("repeated update with same inputs is idempotent", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, audit.Nop{}, NewNoopLogger())

		repo.On("SumPaidInvoices", mock.Anything, testUID).Return(decimal.NewFromInt(2000), nil).Twice()
		repo.On("UpdateTaxEstimation", mock.Anything, anyRecord()).Return(nil).Twice()
		cache.On("Set", "tax_estimation:"+testUID, mock.Anything, time.Hour).Return(nil).Twice()

		first, err := svc.Update(context.Background(), testUID, 30)
		assert.NoError(t, err)
		second, err := svc.Update(context.Background(), testUID, 30)
		assert.NoError(t, err)
		assert.True(t, first.EstimatedAmountSetAside.Equal(second.EstimatedAmountSetAside))

		repo.AssertExpectations(t)
	})

	t.Run("income read failure propagates", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, audit.Nop{}, NewNoopLogger())

		repo.On("SumPaidInvoices", mock.Anything, testUID).Return(decimal.Zero, errors.New("db down")).Once()

		_, err := svc.Update(context.Background(), testUID, 10)
		assert.Error(t, err)

		repo.AssertExpectations(t)
	})
}

func TestTaxEstimation_Get(t *testing.T) {
	record := &models.TaxEstimation{
		UserUID:                 testUID,
		TaxPercentage:           decimal.NewFromInt(15),
		EstimatedAmountSetAside: decimal.NewFromInt(1500),
		LastCalculatedAt:        time.Now().UTC(),
	}

	t.Run("cache miss falls back to repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, audit.Nop{}, NewNoopLogger())

		cache.On("Get", "tax_estimation:"+testUID, mock.Anything).Return(false, nil).Once()
		repo.On("GetTaxEstimation", mock.Anything, testUID).Return(record, nil).Once()
		cache.On("Set", "tax_estimation:"+testUID, record, time.Hour).Return(nil).Once()

		got, err := svc.Get(context.Background(), testUID)
		assert.NoError(t, err)
		assert.Equal(t, record, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("missing record gives not found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, audit.Nop{}, NewNoopLogger())

		cache.On("Get", "tax_estimation:"+testUID, mock.Anything).Return(false, nil).Once()
		repo.On("GetTaxEstimation", mock.Anything, testUID).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Get(context.Background(), testUID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		repo.AssertExpectations(t)
	})

	t.Run("cache error does not block read", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, audit.Nop{}, NewNoopLogger())

		cache.On("Get", "tax_estimation:"+testUID, mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("GetTaxEstimation", mock.Anything, testUID).Return(record, nil).Once()
		cache.On("Set", "tax_estimation:"+testUID, record, time.Hour).Return(nil).Once()

		got, err := svc.Get(context.Background(), testUID)
		assert.NoError(t, err)
		assert.Equal(t, record, got)
	})
}
