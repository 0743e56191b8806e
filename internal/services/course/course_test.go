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

	"github.com/magabrotheeeer/lms-backend/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateCourse(ctx context.Context, course models.Course) (int, error) {
	args := m.Called(ctx, course)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadCourse(ctx context.Context, id int) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}
func (m *RepoMock) UpdateCourse(ctx context.Context, req models.DummyCourse, id int) (int, error) {
	args := m.Called(ctx, req, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveCourse(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
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

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) OnCourseUpdated(ctx context.Context, courseID int, prevUpdatedAt *time.Time) error {
	args := m.Called(ctx, courseID, prevUpdatedAt)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCourseService_Read(t *testing.T) {
	course := &models.Course{ID: 7, Title: "Go для начинающих"}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    bool
	}{
		{
			name: "промах кеша, чтение из репозитория и запись в кеш",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "course:7", mock.Anything).Return(false, nil).Once()
				r.On("ReadCourse", mock.Anything, 7).Return(course, nil).Once()
				c.On("Set", "course:7", course, time.Hour).Return(nil).Once()
			},
		},
		{
			name: "ошибка кеша не мешает чтению из репозитория",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "course:7", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("ReadCourse", mock.Anything, 7).Return(course, nil).Once()
				c.On("Set", "course:7", course, time.Hour).Return(errors.New("redis down")).Once()
			},
		},
		{
			name: "ошибка репозитория",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "course:7", mock.Anything).Return(false, nil).Once()
				r.On("ReadCourse", mock.Anything, 7).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := NewCourseService(repo, cache, nil, newNoopLogger())
			got, err := svc.Read(context.Background(), 7)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, course, got)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCourseService_Update_NotifiesWithPreviousUpdatedAt(t *testing.T) {
	prevTime := time.Now().Add(-5 * time.Hour)
	prev := &models.Course{ID: 3, Title: "SQL", UpdatedAt: &prevTime}
	req := models.DummyCourse{Title: "SQL, издание второе"}

	repo := new(RepoMock)
	cache := new(CacheMock)
	notifier := new(NotifierMock)

	repo.On("ReadCourse", mock.Anything, 3).Return(prev, nil).Once()
	repo.On("UpdateCourse", mock.Anything, req, 3).Return(1, nil).Once()
	cache.On("Invalidate", "course:3").Return(nil).Once()
	notifier.On("OnCourseUpdated", mock.Anything, 3, &prevTime).Return(nil).Once()

	svc := NewCourseService(repo, cache, notifier, newNoopLogger())
	count, err := svc.Update(context.Background(), req, 3)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCourseService_Update_NoNotifyWhenNothingChanged(t *testing.T) {
	prev := &models.Course{ID: 3, Title: "SQL"}
	req := models.DummyCourse{Title: "SQL"}

	repo := new(RepoMock)
	cache := new(CacheMock)
	notifier := new(NotifierMock)

	repo.On("ReadCourse", mock.Anything, 3).Return(prev, nil).Once()
	repo.On("UpdateCourse", mock.Anything, req, 3).Return(0, nil).Once()
	cache.On("Invalidate", "course:3").Return(nil).Once()

	svc := NewCourseService(repo, cache, notifier, newNoopLogger())
	count, err := svc.Update(context.Background(), req, 3)

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	notifier.AssertNotCalled(t, "OnCourseUpdated", mock.Anything, mock.Anything, mock.Anything)
}

func TestCourseService_Remove_InvalidatesCache(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	cache.On("Invalidate", "course:9").Return(nil).Once()
	repo.On("RemoveCourse", mock.Anything, 9).Return(1, nil).Once()

	svc := NewCourseService(repo, cache, nil, newNoopLogger())
	count, err := svc.Remove(context.Background(), 9)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
