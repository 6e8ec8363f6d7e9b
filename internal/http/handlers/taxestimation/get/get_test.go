package get

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/payasyougo/payasyougo/internal/http/middlewarectx"
	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
)

// MockService реализует интерфейс get.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, userUID string) (*models.TaxEstimation, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.TaxEstimation), args.Error(1)
	}
	return nil, args.Error(1)
}

const testUID = "uid-1"

func TestGetHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	record := &models.TaxEstimation{
		UserUID:                 testUID,
		TaxPercentage:           decimal.RequireFromString("22.5"),
		EstimatedAmountSetAside: decimal.RequireFromString("450.75"),
		LastCalculatedAt:        time.Now().UTC(),
	}

	tests := []struct {
		name           string
		withUser       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешное чтение оценки",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, testUID).Return(record, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tax_percentage":"22.5"`,
		},
		{
			name:     "оценки еще нет",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, testUID).Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"tax estimation not found"`,
		},
		{
			name:           "нет пользователя в контексте",
			withUser:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:     "ошибка сервиса",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, testUID).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/tax-estimation", nil)
			if tt.withUser {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, testUID))
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}
			mockService.AssertExpectations(t)
		})
	}
}
