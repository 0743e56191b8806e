// Package services содержит бизнес-логику профилей пользователей:
// выбор проекции при просмотре и изменение собственных данных.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/lms-backend/internal/models"
	"github.com/magabrotheeeer/lms-backend/internal/policy"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateProfile обновляет поля профиля, возвращает количество изменённых строк.
	UpdateProfile(ctx context.Context, userUID string, req models.DummyProfile) (int, error)
	// RemoveUser удаляет учётную запись, возвращает количество удалённых строк.
	RemoveUser(ctx context.Context, userUID string) (int, error)
}

// PaymentRepository определяет доступ к истории платежей для полного профиля.
type PaymentRepository interface {
	// ListPayments возвращает платежи по фильтру.
	ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error)
}

// ProfileService реализует просмотр и изменение профилей.
type ProfileService struct {
	users    UserRepository
	payments PaymentRepository
	log      *slog.Logger
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(users UserRepository, payments PaymentRepository, log *slog.Logger) *ProfileService {
	return &ProfileService{
		users:    users,
		payments: payments,
		log:      log,
	}
}

// historyLimit ограничивает историю платежей в полном профиле.
const historyLimit = 100

// Read возвращает проекцию профиля targetUID для субъекта subject: владелец
// получает полный профиль с историей платежей, остальные — публичный.
// Во втором значении возвращается выбранная проекция.
func (s *ProfileService) Read(ctx context.Context, subject policy.Subject, targetUID string) (any, policy.View, error) {
	user, err := s.users.GetUser(ctx, targetUID)
	if err != nil {
		return nil, policy.ViewPublic, err
	}

	view := policy.ProfileView(subject, targetUID)
	if view == policy.ViewPublic {
		return models.NewPublicProfile(user), view, nil
	}

	payments, err := s.payments.ListPayments(ctx, models.PaymentFilter{
		UserUID: &targetUID,
		Limit:   historyLimit,
	})
	if err != nil {
		return nil, view, err
	}
	return models.NewFullProfile(user, payments), view, nil
}

// Update обновляет профиль targetUID. Менять профиль может только его
// владелец, модераторского обхода нет.
func (s *ProfileService) Update(ctx context.Context, subject policy.Subject, targetUID string, req models.DummyProfile) (int, policy.Effect, error) {
	if effect := policy.ProfileMutation(subject, targetUID); effect != policy.EffectAllow {
		return 0, effect, nil
	}
	count, err := s.users.UpdateProfile(ctx, targetUID, req)
	if err != nil {
		return 0, policy.EffectAllow, err
	}
	return count, policy.EffectAllow, nil
}

// Remove удаляет учётную запись targetUID. Удалять может только владелец.
func (s *ProfileService) Remove(ctx context.Context, subject policy.Subject, targetUID string) (int, policy.Effect, error) {
	if effect := policy.ProfileMutation(subject, targetUID); effect != policy.EffectAllow {
		return 0, effect, nil
	}
	count, err := s.users.RemoveUser(ctx, targetUID)
	if err != nil {
		return 0, policy.EffectAllow, err
	}
	s.log.Info("removed user account", slog.String("user_uid", targetUID))
	return count, policy.EffectAllow, nil
}
