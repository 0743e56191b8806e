// Package services содержит бизнес-логику подписок на обновления курсов
// и публикацию уведомлений в брокер.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lms-backend/internal/models"
	"github.com/magabrotheeeer/lms-backend/internal/rabbitmq"
)

// updateDebounce минимальный интервал между рассылками об обновлении курса.
// Более частые обновления пишутся в базу молча, письма не уходят.
const updateDebounce = 4 * time.Hour

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// ToggleSubscription атомарно переключает подписку пользователя на курс.
	// Возвращает true, если подписка в итоге существует.
	ToggleSubscription(ctx context.Context, userUID string, courseID int) (bool, error)
	// IsSubscribed сообщает, подписан ли пользователь на курс.
	IsSubscribed(ctx context.Context, userUID string, courseID int) (bool, error)
}

// CourseReader отдаёт курс для проверки существования перед подпиской.
type CourseReader interface {
	// ReadCourse возвращает курс по ID.
	ReadCourse(ctx context.Context, id int) (*models.Course, error)
}

// SubscriptionService реализует переключение подписок и принимает решение
// о рассылке уведомлений при обновлении курса.
type SubscriptionService struct {
	repo    SubscriptionRepository
	catalog CourseReader
	channel *amqp.Channel
	log     *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, catalog CourseReader, channel *amqp.Channel, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:    repo,
		catalog: catalog,
		channel: channel,
		log:     log,
	}
}

// Toggle переключает подписку пользователя на курс. Несуществующий курс —
// ошибка repository.ErrNotFound, подписка не создаётся.
// Возвращает true, если подписка в итоге существует.
func (s *SubscriptionService) Toggle(ctx context.Context, userUID string, courseID int) (bool, error) {
	if _, err := s.catalog.ReadCourse(ctx, courseID); err != nil {
		return false, err
	}
	subscribed, err := s.repo.ToggleSubscription(ctx, userUID, courseID)
	if err != nil {
		return false, err
	}
	s.log.Info("toggled subscription",
		slog.String("user_uid", userUID),
		slog.Int("course_id", courseID),
		slog.Bool("subscribed", subscribed))
	return subscribed, nil
}

// IsSubscribed сообщает, подписан ли пользователь на курс.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, userUID string, courseID int) (bool, error) {
	return s.repo.IsSubscribed(ctx, userUID, courseID)
}

// OnCourseUpdated решает, рассылать ли уведомление об обновлении курса, и при
// положительном решении публикует событие в брокер. prevUpdatedAt — время
// предыдущего обновления: nil означает первое обновление, письма уходят.
func (s *SubscriptionService) OnCourseUpdated(_ context.Context, courseID int, prevUpdatedAt *time.Time) error {
	if !SendNow(prevUpdatedAt, time.Now()) {
		s.log.Info("course update notification suppressed",
			slog.Int("course_id", courseID))
		return nil
	}

	event := models.CourseUpdatedEvent{CourseID: courseID}
	if err := rabbitmq.PublishMessage(s.channel, rabbitmq.NotificationsExchange,
		rabbitmq.CourseUpdatedKey, event); err != nil {
		return err
	}
	s.log.Info("published course update notification", slog.Int("course_id", courseID))
	return nil
}

// SendNow сообщает, нужно ли рассылать уведомление сейчас: да, если курс
// обновляется впервые или с предыдущего обновления прошло больше
// updateDebounce.
func SendNow(prevUpdatedAt *time.Time, now time.Time) bool {
	if prevUpdatedAt == nil {
		return true
	}
	return now.Sub(*prevUpdatedAt) > updateDebounce
}
