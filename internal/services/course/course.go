// Package services содержит бизнес-логику для управления курсами и кеширования.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// CourseRepository определяет методы для работы с курсами в хранилище.
type CourseRepository interface {
	// CreateCourse вставляет новый курс и возвращает его ID.
	CreateCourse(ctx context.Context, course models.Course) (int, error)
	// ReadCourse возвращает курс по ID вместе с количеством уроков.
	ReadCourse(ctx context.Context, id int) (*models.Course, error)
	// UpdateCourse обновляет курс и возвращает количество изменённых строк.
	UpdateCourse(ctx context.Context, req models.DummyCourse, id int) (int, error)
	// RemoveCourse удаляет курс и возвращает количество удалённых строк.
	RemoveCourse(ctx context.Context, id int) (int, error)
	// ListCourses возвращает список курсов с пагинацией.
	ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// UpdateNotifier получает уведомление об обновлении курса.
// prevUpdatedAt — время предыдущего обновления, nil если курс не обновлялся.
type UpdateNotifier interface {
	OnCourseUpdated(ctx context.Context, courseID int, prevUpdatedAt *time.Time) error
}

// CourseService реализует бизнес-логику работы с курсами, включая кеширование
// и уведомление подписчиков об обновлениях.
type CourseService struct {
	repo     CourseRepository
	cache    Cache
	notifier UpdateNotifier
	log      *slog.Logger
}

// NewCourseService создает новый экземпляр CourseService.
func NewCourseService(repo CourseRepository, cache Cache, notifier UpdateNotifier, log *slog.Logger) *CourseService {
	return &CourseService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// Create создает новый курс от имени владельца и возвращает ID.
func (s *CourseService) Create(ctx context.Context, ownerUID string, req models.DummyCourse) (int, error) {
	course := models.Course{
		Title:       req.Title,
		Preview:     req.Preview,
		Description: req.Description,
		OwnerUID:    &ownerUID,
	}
	id, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new course", slog.Int("id", id))
	return id, nil
}

// Read возвращает курс по ID, используя кеш или репозиторий.
func (s *CourseService) Read(ctx context.Context, id int) (*models.Course, error) {
	var result *models.Course
	cacheKey := fmt.Sprintf("course:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ReadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache course", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет курс, инвалидирует кеш и уведомляет подписчиков.
// Время предыдущего обновления читается до записи: по нему решается,
// рассылать ли письма сейчас. Возвращает количество изменённых строк.
func (s *CourseService) Update(ctx context.Context, req models.DummyCourse, id int) (int, error) {
	prev, err := s.repo.ReadCourse(ctx, id)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.UpdateCourse(ctx, req, id)
	if err != nil {
		return 0, err
	}

	cacheKey := fmt.Sprintf("course:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	if count > 0 && s.notifier != nil {
		if err := s.notifier.OnCourseUpdated(ctx, id, prev.UpdatedAt); err != nil {
			s.log.Error("failed to notify about course update",
				slog.Int("course_id", id), slog.Any("err", err))
		}
	}
	return count, nil
}

// Remove удаляет курс и инвалидирует кеш. Возвращает количество удалённых строк.
func (s *CourseService) Remove(ctx context.Context, id int) (int, error) {
	cacheKey := fmt.Sprintf("course:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return s.repo.RemoveCourse(ctx, id)
}

// List возвращает список курсов с пагинацией.
func (s *CourseService) List(ctx context.Context, limit, offset int) ([]*models.Course, error) {
	return s.repo.ListCourses(ctx, limit, offset)
}
