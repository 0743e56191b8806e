// Package services содержит бизнес-логику платежей: оркестрацию платёжного
// шлюза, историю платежей и сверку статуса сессии.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// Ошибки платёжного сервиса.
var (
	// ErrNoTarget платёж не указывает ни курс, ни урок.
	ErrNoTarget = errors.New("payment has no course or lesson")
	// ErrNoSession у платежа нет сессии шлюза, сверять нечего.
	ErrNoSession = errors.New("payment has no gateway session")
)

// PaymentRepository определяет методы для работы с платежами в хранилище.
type PaymentRepository interface {
	// CreatePayment вставляет запись платежа без полей шлюза и возвращает её ID.
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	// ReadPayment возвращает платёж по ID.
	ReadPayment(ctx context.Context, id int) (*models.Payment, error)
	// SetPaymentSession записывает сессию шлюза и ссылку одним обновлением.
	SetPaymentSession(ctx context.Context, id int, sessionID, link string) (int, error)
	// ListPayments возвращает платежи по фильтру.
	ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error)
}

// CatalogRepository отдаёт названия оплачиваемых курсов и уроков.
type CatalogRepository interface {
	// ReadCourse возвращает курс по ID.
	ReadCourse(ctx context.Context, id int) (*models.Course, error)
	// ReadLesson возвращает урок по ID.
	ReadLesson(ctx context.Context, id int) (*models.Lesson, error)
}

// Gateway описывает обращения к внешнему платёжному шлюзу.
type Gateway interface {
	// CreateProduct создаёт продукт и возвращает его ID.
	CreateProduct(ctx context.Context, name string) (string, error)
	// CreatePrice создаёт цену для продукта, сумма в минорных единицах.
	CreatePrice(ctx context.Context, productID string, amountMinor int64) (string, error)
	// CreateSession создаёт сессию оплаты, возвращает её ID и ссылку.
	CreateSession(ctx context.Context, priceID string) (string, string, error)
	// GetStatus возвращает статус сессии оплаты.
	GetStatus(ctx context.Context, sessionID string) (string, error)
}

// PaymentService оркестрирует создание платежа через внешний шлюз.
type PaymentService struct {
	repo    PaymentRepository
	catalog CatalogRepository
	gateway Gateway
	log     *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo PaymentRepository, catalog CatalogRepository, gateway Gateway, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:    repo,
		catalog: catalog,
		gateway: gateway,
		log:     log,
	}
}

// Create создает платёж и проводит его через шлюз: продукт, цена, сессия.
// Запись платежа сохраняется до обращений к шлюзу; сессия и ссылка пишутся
// одним обновлением только после успеха всех трёх вызовов, поэтому платёж
// либо остаётся без полей шлюза, либо получает оба сразу.
// Возвращает платёж со ссылкой на оплату.
func (s *PaymentService) Create(ctx context.Context, userUID string, req models.DummyPayment) (*models.Payment, error) {
	if req.CourseID == nil && req.LessonID == nil {
		return nil, ErrNoTarget
	}

	title, err := s.resolveTitle(ctx, req.CourseID, req.LessonID)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		UserUID:       userUID,
		CourseID:      req.CourseID,
		LessonID:      req.LessonID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	}
	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return nil, err
	}
	s.log.Info("created payment", slog.Int("id", id), slog.String("user_uid", userUID))

	productID, err := s.gateway.CreateProduct(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	priceID, err := s.gateway.CreatePrice(ctx, productID, toMinorUnits(req.Amount))
	if err != nil {
		return nil, fmt.Errorf("create price: %w", err)
	}
	sessionID, link, err := s.gateway.CreateSession(ctx, priceID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if _, err := s.repo.SetPaymentSession(ctx, id, sessionID, link); err != nil {
		return nil, err
	}
	s.log.Info("payment session created",
		slog.Int("id", id), slog.String("session_id", sessionID))

	return s.repo.ReadPayment(ctx, id)
}

// resolveTitle возвращает название оплачиваемого объекта: курс в приоритете,
// урок берётся только когда курс не указан.
func (s *PaymentService) resolveTitle(ctx context.Context, courseID, lessonID *int) (string, error) {
	if courseID != nil {
		course, err := s.catalog.ReadCourse(ctx, *courseID)
		if err != nil {
			return "", err
		}
		return course.Title, nil
	}
	lesson, err := s.catalog.ReadLesson(ctx, *lessonID)
	if err != nil {
		return "", err
	}
	return lesson.Title, nil
}

// toMinorUnits переводит сумму в рублях в копейки для шлюза.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Read возвращает платёж по ID.
func (s *PaymentService) Read(ctx context.Context, id int) (*models.Payment, error) {
	return s.repo.ReadPayment(ctx, id)
}

// List возвращает историю платежей по фильтру. Не-сотрудник всегда видит
// только собственные платежи, фильтр по пользователю для него принудительный.
func (s *PaymentService) List(ctx context.Context, userUID string, isStaff bool, filter models.PaymentFilter) ([]*models.Payment, error) {
	if !isStaff {
		filter.UserUID = &userUID
	}
	return s.repo.ListPayments(ctx, filter)
}

// Status запрашивает у шлюза статус сессии платежа и возвращает его без
// преобразований. Платёж без сессии сверить нельзя.
func (s *PaymentService) Status(ctx context.Context, id int) (string, error) {
	payment, err := s.repo.ReadPayment(ctx, id)
	if err != nil {
		return "", err
	}
	if payment.SessionID == nil {
		return "", ErrNoSession
	}
	return s.gateway.GetStatus(ctx, *payment.SessionID)
}
