// Package services содержит бизнес-логику для управления уроками.
package services

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// allowedVideoHost единственный разрешённый видеохостинг для уроков.
const allowedVideoHost = "youtube.com"

// LessonRepository определяет методы для работы с уроками в хранилище.
type LessonRepository interface {
	// CreateLesson вставляет новый урок и возвращает его ID.
	CreateLesson(ctx context.Context, lesson models.Lesson) (int, error)
	// ReadLesson возвращает урок по ID.
	ReadLesson(ctx context.Context, id int) (*models.Lesson, error)
	// UpdateLesson обновляет урок и возвращает количество изменённых строк.
	UpdateLesson(ctx context.Context, req models.DummyLesson, id int) (int, error)
	// RemoveLesson удаляет урок и возвращает количество удалённых строк.
	RemoveLesson(ctx context.Context, id int) (int, error)
	// ListLessons возвращает уроки с пагинацией, courseID = 0 — все курсы.
	ListLessons(ctx context.Context, courseID, limit, offset int) ([]*models.Lesson, error)
}

// LessonService реализует бизнес-логику работы с уроками.
type LessonService struct {
	repo LessonRepository
	log  *slog.Logger
}

// NewLessonService создает новый экземпляр LessonService.
func NewLessonService(repo LessonRepository, log *slog.Logger) *LessonService {
	return &LessonService{
		repo: repo,
		log:  log,
	}
}

// RegisterVideoHostValidation регистрирует правило video_host: ссылка на видео
// должна вести на youtube.com (включая поддомены вроде www).
func RegisterVideoHostValidation(validate *validator.Validate) error {
	return validate.RegisterValidation("video_host", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		if err != nil {
			return false
		}
		host := strings.ToLower(u.Hostname())
		return host == allowedVideoHost || strings.HasSuffix(host, "."+allowedVideoHost)
	})
}

// Create создает новый урок от имени владельца и возвращает ID.
func (s *LessonService) Create(ctx context.Context, ownerUID string, req models.DummyLesson) (int, error) {
	lesson := models.Lesson{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Preview:     req.Preview,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		OwnerUID:    &ownerUID,
	}
	id, err := s.repo.CreateLesson(ctx, lesson)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new lesson", slog.Int("id", id))
	return id, nil
}

// Read возвращает урок по ID.
func (s *LessonService) Read(ctx context.Context, id int) (*models.Lesson, error) {
	return s.repo.ReadLesson(ctx, id)
}

// Update обновляет урок и возвращает количество изменённых строк.
func (s *LessonService) Update(ctx context.Context, req models.DummyLesson, id int) (int, error) {
	return s.repo.UpdateLesson(ctx, req, id)
}

// Remove удаляет урок и возвращает количество удалённых строк.
func (s *LessonService) Remove(ctx context.Context, id int) (int, error) {
	return s.repo.RemoveLesson(ctx, id)
}

// List возвращает уроки с пагинацией. courseID = 0 — уроки всех курсов.
func (s *LessonService) List(ctx context.Context, courseID, limit, offset int) ([]*models.Lesson, error) {
	return s.repo.ListLessons(ctx, courseID, limit, offset)
}
