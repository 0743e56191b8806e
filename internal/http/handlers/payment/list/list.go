// Package list реализует HTTP-обработчик истории платежей.
//
// Обычный пользователь видит только свои платежи, сотрудник — любые.
// Поддерживаются фильтры по курсу, уроку и способу оплаты.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	courselist "github.com/magabrotheeeer/lms-backend/internal/http/handlers/course/list"
	"github.com/magabrotheeeer/lms-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-backend/internal/http/response"
	"github.com/magabrotheeeer/lms-backend/internal/lib/sl"
	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// Handler обрабатывает запросы на получение истории платежей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики платежей
}

// Service описывает интерфейс бизнес-логики истории платежей.
type Service interface {
	List(ctx context.Context, userUID string, isStaff bool, filter models.PaymentFilter) ([]*models.Payment, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary История платежей
// @Description Возвращает платежи текущего пользователя, отсортированные по дате по убыванию. Фильтры: course_id, lesson_id, payment_method.
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Param course_id query int false "Фильтр по курсу"
// @Param lesson_id query int false "Фильтр по уроку"
// @Param payment_method query string false "Фильтр по способу оплаты" Enums(cash, transfer)
// @Param limit query int false "Максимум записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список платежей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	filter := models.PaymentFilter{}
	filter.Limit, filter.Offset = courselist.ParsePagination(r)
	if v, err := strconv.Atoi(r.URL.Query().Get("course_id")); err == nil && v > 0 {
		filter.CourseID = &v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("lesson_id")); err == nil && v > 0 {
		filter.LessonID = &v
	}
	if v := r.URL.Query().Get("payment_method"); v != "" {
		filter.PaymentMethod = &v
	}

	payments, err := h.service.List(r.Context(), user.UID, user.IsStaff, filter)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list payments"))
		return
	}
	if payments == nil {
		payments = []*models.Payment{}
	}

	log.Info("listed payments", slog.Int("count", len(payments)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payments": payments,
	}))
}
