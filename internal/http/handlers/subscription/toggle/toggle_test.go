package toggle

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
	"github.com/magabrotheeeer/lms-backend/internal/storage/repository"
)

// MockService реализует интерфейс toggle.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Toggle(ctx context.Context, userUID string, courseID int) (bool, error) {
	args := m.Called(ctx, userUID, courseID)
	return args.Bool(0), args.Error(1)
}

func TestToggleHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	user := &models.User{UID: "3f2c8a4e-0000-0000-0000-000000000001", IsActive: true}

	tests := []struct {
		name           string
		body           string
		withUser       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "подписка добавлена",
			body:     `{"course_id":5}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Toggle", mock.Anything, user.UID, 5).Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   MessageSubscribed,
		},
		{
			name:     "подписка удалена повторным запросом",
			body:     `{"course_id":5}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Toggle", mock.Anything, user.UID, 5).Return(false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   MessageUnsubscribed,
		},
		{
			name:           "анонимный запрос",
			body:           `{"course_id":5}`,
			withUser:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:           "course_id обязателен",
			body:           `{}`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field CourseID is a required field`,
		},
		{
			name:     "несуществующий курс",
			body:     `{"course_id":999}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Toggle", mock.Anything, user.UID, 999).
					Return(false, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `course not found`,
		},
		{
			name:     "ошибка сервиса",
			body:     `{"course_id":5}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Toggle", mock.Anything, user.UID, 5).Return(false, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not toggle subscription`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscriptions/toggle", strings.NewReader(tt.body))
			if tt.withUser {
				ctx := context.WithValue(req.Context(), middlewarectx.User, user)
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
