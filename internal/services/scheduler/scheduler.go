// Package services содержит фоновую задачу блокировки неактивных пользователей.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/lms-backend/internal/lib/sl"
)

// inactivityThreshold срок без входа, после которого учётная запись блокируется.
const inactivityThreshold = 30 * 24 * time.Hour

// UserRepository определяет массовую блокировку в хранилище.
type UserRepository interface {
	// BlockInactiveUsers деактивирует пользователей, не входивших с момента
	// cutoff, и возвращает количество заблокированных.
	BlockInactiveUsers(ctx context.Context, cutoff time.Time) (int, error)
}

// SchedulerService блокирует учётные записи, неактивные больше месяца.
type SchedulerService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo UserRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// RunBlockInactiveUsers выполняет один проход блокировки. Сотрудники и
// суперпользователи хранилищем не блокируются. Ошибка логируется, задача
// продолжит запускаться по расписанию.
func (s *SchedulerService) RunBlockInactiveUsers(ctx context.Context) {
	s.log.Info("starting inactive users sweep")
	cutoff := time.Now().Add(-inactivityThreshold)

	count, err := s.repo.BlockInactiveUsers(ctx, cutoff)
	if err != nil {
		s.log.Error("failed to block inactive users", sl.Err(err))
		return
	}
	if count == 0 {
		s.log.Info("no inactive users found")
		return
	}
	s.log.Info("blocked inactive users", slog.Int("count", count))
}
