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

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/payasyougo/payasyougo/internal/http/middlewarectx"
	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateItem(ctx context.Context, userUID string, invoiceID int, req models.DummyInvoiceItem) (int, error) {
	args := m.Called(ctx, userUID, invoiceID, req)
	return args.Int(0), args.Error(1)
}

const testUID = "uid-1"

func TestCreateItemHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	validBody := `{"description": "Design work", "quantity": "3", "unit_price": "99.99"}`

	tests := []struct {
		name           string
		invoiceID      string
		body           string
		withUser       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешное добавление строки",
			invoiceID: "5",
			body:      validBody,
			withUser:  true,
			setupMock: func(m *MockService) {
				m.On("CreateItem", mock.Anything, testUID, 5, mock.AnythingOfType("models.DummyInvoiceItem")).
					Return(11, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"last_added_id":11`,
		},
		{
			name:      "счёт не найден",
			invoiceID: "404",
			body:      validBody,
			withUser:  true,
			setupMock: func(m *MockService) {
				m.On("CreateItem", mock.Anything, testUID, 404, mock.AnythingOfType("models.DummyInvoiceItem")).
					Return(0, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"invoice not found"`,
		},
		{
			name:           "некорректный ID счёта",
			invoiceID:      "abc",
			body:           validBody,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "некорректный JSON",
			invoiceID:      "5",
			body:           `not json`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "пустое описание",
			invoiceID:      "5",
			body:           `{"description": "", "quantity": "3", "unit_price": "99.99"}`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "нет пользователя в контексте",
			invoiceID:      "5",
			body:           validBody,
			withUser:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:      "ошибка сервиса",
			invoiceID: "5",
			body:      validBody,
			withUser:  true,
			setupMock: func(m *MockService) {
				m.On("CreateItem", mock.Anything, testUID, 5, mock.AnythingOfType("models.DummyInvoiceItem")).
					Return(0, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not create invoice item"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/invoices/"+tt.invoiceID+"/items", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.invoiceID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
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
