package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/services/audit"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
)

func itemReq() models.DummyInvoiceItem {
	return models.DummyInvoiceItem{
		Description: "Design work",
		Quantity:    decimal.NewFromInt(3),
		UnitPrice:   decimal.RequireFromString("99.99"),
	}
}

func TestInvoiceItem_Create(t *testing.T) {
	t.Run("amount is computed from quantity and unit price", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewInvoiceService(repo, cache, audit.Nop{}, NewNoopLogger())

		var saved models.InvoiceItem
		repo.On("CreateInvoiceItem", mock.Anything, testUID, mock.AnythingOfType("models.InvoiceItem")).
			Run(func(args mock.Arguments) { saved = args.Get(2).(models.InvoiceItem) }).
			Return(11, nil).Once()

		id, err := svc.CreateItem(context.Background(), testUID, 5, itemReq())

		assert.NoError(t, err)
		assert.Equal(t, 11, id)
		assert.Equal(t, 5, saved.InvoiceID)
		assert.Equal(t, "299.97", saved.Amount.String())
		repo.AssertExpectations(t)
	})

	t.Run("amount rounds to two decimals", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewInvoiceService(repo, cache, audit.Nop{}, NewNoopLogger())

		var saved models.InvoiceItem
		repo.On("CreateInvoiceItem", mock.Anything, testUID, mock.AnythingOfType("models.InvoiceItem")).
			Run(func(args mock.Arguments) { saved = args.Get(2).(models.InvoiceItem) }).
			Return(12, nil).Once()

		req := models.DummyInvoiceItem{
			Description: "Hourly work",
			Quantity:    decimal.RequireFromString("2.5"),
			UnitPrice:   decimal.RequireFromString("33.333"),
		}
		_, err := svc.CreateItem(context.Background(), testUID, 5, req)

		assert.NoError(t, err)
		assert.Equal(t, "83.33", saved.Amount.String())
	})

	t.Run("unknown invoice gives not found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewInvoiceService(repo, cache, audit.Nop{}, NewNoopLogger())

		repo.On("CreateInvoiceItem", mock.Anything, testUID, mock.AnythingOfType("models.InvoiceItem")).
			Return(0, repository.ErrNotFound).Once()

		_, err := svc.CreateItem(context.Background(), testUID, 404, itemReq())

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestInvoiceItem_List(t *testing.T) {
	t.Run("unknown invoice gives not found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewInvoiceService(repo, cache, audit.Nop{}, NewNoopLogger())

		repo.On("ReadInvoice", mock.Anything, testUID, 404).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.ListItems(context.Background(), testUID, 404)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		repo.AssertNotCalled(t, "ListInvoiceItems")
	})

	t.Run("owned invoice returns its items", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewInvoiceService(repo, cache, audit.Nop{}, NewNoopLogger())

		items := []*models.InvoiceItem{
			{ID: 1, InvoiceID: 5, Description: "Design work"},
			{ID: 2, InvoiceID: 5, Description: "Hosting"},
		}
		repo.On("ReadInvoice", mock.Anything, testUID, 5).Return(&models.Invoice{ID: 5}, nil).Once()
		repo.On("ListInvoiceItems", mock.Anything, testUID, 5).Return(items, nil).Once()

		got, err := svc.ListItems(context.Background(), testUID, 5)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
	})
}

func TestInvoiceItem_Update(t *testing.T) {
	t.Run("update recomputes amount", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewInvoiceService(repo, cache, audit.Nop{}, NewNoopLogger())

		var saved models.InvoiceItem
		repo.On("UpdateInvoiceItem", mock.Anything, testUID, mock.AnythingOfType("models.InvoiceItem")).
			Run(func(args mock.Arguments) { saved = args.Get(2).(models.InvoiceItem) }).
			Return(nil).Once()

		err := svc.UpdateItem(context.Background(), testUID, 11, itemReq())

		assert.NoError(t, err)
		assert.Equal(t, 11, saved.ID)
		assert.Equal(t, "299.97", saved.Amount.String())
	})

	t.Run("unknown item gives not found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewInvoiceService(repo, cache, audit.Nop{}, NewNoopLogger())

		repo.On("UpdateInvoiceItem", mock.Anything, testUID, mock.AnythingOfType("models.InvoiceItem")).
			Return(repository.ErrNotFound).Once()

		err := svc.UpdateItem(context.Background(), testUID, 404, itemReq())

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestInvoiceItem_Remove(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewInvoiceService(repo, cache, audit.Nop{}, NewNoopLogger())

	repo.On("RemoveInvoiceItem", mock.Anything, testUID, 11).Return(nil).Once()

	err := svc.RemoveItem(context.Background(), testUID, 11)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
