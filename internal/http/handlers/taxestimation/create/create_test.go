package create

import (
	"context"
	"errors"
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
	services "github.com/payasyougo/payasyougo/internal/services/taxestim"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userUID string, percentage float64) (*models.TaxEstimation, error) {
	args := m.Called(ctx, userUID, percentage)
	if res := args.Get(0); res != nil {
		return res.(*models.TaxEstimation), args.Error(1)
	}
	return nil, args.Error(1)
}

const testUID = "uid-1"

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	record := &models.TaxEstimation{
		UserUID:                 testUID,
		TaxPercentage:           decimal.NewFromInt(15),
		EstimatedAmountSetAside: decimal.RequireFromString("1500.00"),
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
			name:     "успешное создание оценки",
			body:     `{"tax_percentage": 15}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, testUID, float64(15)).Return(record, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"estimated_amount_set_aside":"1500"`,
		},
		{
			name:     "нулевой процент проходит валидацию",
			body:     `{"tax_percentage": 0}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, testUID, float64(0)).Return(record, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "некорректный JSON",
			body:           `{`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "процент отсутствует",
			body:           `{}`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "процент выше ста отклоняется валидатором",
			body:           `{"tax_percentage": 101}`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "отрицательный процент отклоняется валидатором",
			body:           `{"tax_percentage": -1}`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "нет пользователя в контексте",
			body:           `{"tax_percentage": 15}`,
			withUser:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:     "повторное создание дает конфликт",
			body:     `{"tax_percentage": 15}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, testUID, float64(15)).Return(nil, repository.ErrAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"tax estimation already exists"`,
		},
		{
			name:     "сервис отклоняет диапазон",
			body:     `{"tax_percentage": 15}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, testUID, float64(15)).Return(nil, services.ErrInvalidPercentage)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:     "ошибка сервиса",
			body:     `{"tax_percentage": 15}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, testUID, float64(15)).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not create tax estimation"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/tax-estimation", strings.NewReader(tt.body))
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
