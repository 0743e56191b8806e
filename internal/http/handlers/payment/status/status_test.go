package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	payment "github.com/magabrotheeeer/lms-backend/internal/services/payment"
	"github.com/magabrotheeeer/lms-backend/internal/storage/repository"
)

// MockService реализует интерфейс status.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Status(ctx context.Context, id int) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "статус возвращается без преобразований",
			url:  "/payments/55/status",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, 55).Return("unpaid", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"payment_status":"unpaid"`,
		},
		{
			name: "платёж без сессии шлюза",
			url:  "/payments/55/status",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, 55).Return("", payment.ErrNoSession)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `payment has no gateway session`,
		},
		{
			name: "платёж не найден",
			url:  "/payments/55/status",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, 55).Return("", repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `payment not found`,
		},
		{
			name:           "некорректный id в URL",
			url:            "/payments/abc/status",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid payment id`,
		},
		{
			name: "ошибка сервиса",
			url:  "/payments/55/status",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, 55).Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not get payment status`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rctx := chi.NewRouteContext()
			id := strings.TrimSuffix(strings.TrimPrefix(tt.url, "/payments/"), "/status")
			rctx.URLParams.Add("id", id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
