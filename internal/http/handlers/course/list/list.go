// Package list реализует HTTP-обработчик списка курсов с пагинацией.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-backend/internal/http/response"
	"github.com/magabrotheeeer/lms-backend/internal/lib/sl"
	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// Значения пагинации по умолчанию.
const (
	defaultLimit = 20
	maxLimit     = 100
)

// Handler обрабатывает запросы на получение списка курсов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики курсов
}

// Service описывает интерфейс бизнес-логики списка курсов.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Course, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ParsePagination читает limit и offset из query-параметров, приводя их
// к допустимым границам.
func ParsePagination(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// ServeHTTP godoc
// @Summary Список курсов
// @Description Возвращает список курсов с количеством уроков, с пагинацией.
// @Tags Courses
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Максимум записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список курсов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := ParsePagination(r)

	courses, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list courses", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list courses"))
		return
	}
	if courses == nil {
		courses = []*models.Course{}
	}

	log.Info("listed courses", slog.Int("count", len(courses)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"courses": courses,
	}))
}
