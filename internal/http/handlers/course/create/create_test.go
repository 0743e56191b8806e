package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lms-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, ownerUID string, req models.DummyCourse) (int, error) {
	args := m.Called(ctx, ownerUID, req)
	return args.Int(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	regularUser := &models.User{UID: "3f2c8a4e-0000-0000-0000-000000000001", IsActive: true}
	moderator := &models.User{UID: "3f2c8a4e-0000-0000-0000-000000000002", IsActive: true, IsModerator: true}

	tests := []struct {
		name           string
		body           string
		user           *models.User
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание курса",
			body: `{"title":"Go для начинающих"}`,
			user: regularUser,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, regularUser.UID, mock.MatchedBy(func(req models.DummyCourse) bool {
					return req.Title == "Go для начинающих"
				})).Return(42, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":42`,
		},
		{
			name:           "модератор не может создавать курсы",
			body:           `{"title":"Go для начинающих"}`,
			user:           moderator,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"forbidden"`,
		},
		{
			name:           "анонимный запрос",
			body:           `{"title":"Go для начинающих"}`,
			user:           nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:           "курс без названия",
			body:           `{"description":"без названия"}`,
			user:           regularUser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Title is a required field`,
		},
		{
			name:           "некорректный JSON",
			body:           `{title`,
			user:           regularUser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name: "ошибка сервиса",
			body: `{"title":"Go для начинающих"}`,
			user: regularUser,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, regularUser.UID, mock.Anything).
					Return(0, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not create course`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(tt.body))
			if tt.user != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.User, tt.user)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
