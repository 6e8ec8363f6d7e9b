package update

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/payasyougo/payasyougo/internal/http/middlewarectx"
	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, userUID string, percentage float64) (*models.TaxEstimation, error) {
	args := m.Called(ctx, userUID, percentage)
	if res := args.Get(0); res != nil {
		return res.(*models.TaxEstimation), args.Error(1)
	}
	return nil, args.Error(1)
}

const testUID = "uid-1"

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	record := &models.TaxEstimation{
		UserUID:                 testUID,
		TaxPercentage:           decimal.NewFromInt(30),
		EstimatedAmountSetAside: decimal.RequireFromString("600.00"),
		LastCalculatedAt:        time.Now().UTC(),
	}

	tests := []struct {
		name           string
		body           string
		withUser       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешное обновление оценки",
			body:     `{"tax_percentage": 30}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, testUID, float64(30)).Return(record, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tax_percentage":"30"`,
		},
		{
			name:     "обновление без записи дает not found",
			body:     `{"tax_percentage": 30}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, testUID, float64(30)).Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"tax estimation not found"`,
		},
		{
			name:           "некорректный JSON",
			body:           `not json`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "процент выше ста отклоняется валидатором",
			body:           `{"tax_percentage": 100.01}`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "нет пользователя в контексте",
			body:           `{"tax_percentage": 30}`,
			withUser:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/tax-estimation", strings.NewReader(tt.body))
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
