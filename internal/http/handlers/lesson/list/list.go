// Package list реализует HTTP-обработчик списка уроков с пагинацией
// и необязательным фильтром по курсу.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	courselist "github.com/magabrotheeeer/lms-backend/internal/http/handlers/course/list"
	"github.com/magabrotheeeer/lms-backend/internal/http/response"
	"github.com/magabrotheeeer/lms-backend/internal/lib/sl"
	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// Handler обрабатывает запросы на получение списка уроков.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики уроков
}

// Service описывает интерфейс бизнес-логики списка уроков.
type Service interface {
	List(ctx context.Context, courseID, limit, offset int) ([]*models.Lesson, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список уроков
// @Description Возвращает уроки с пагинацией, опционально только одного курса.
// @Tags Lessons
// @Produce  json
// @Security BearerAuth
// @Param course_id query int false "Фильтр по курсу"
// @Param limit query int false "Максимум записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список уроков"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /lessons [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := courselist.ParsePagination(r)
	courseID := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("course_id")); err == nil && v > 0 {
		courseID = v
	}

	lessons, err := h.service.List(r.Context(), courseID, limit, offset)
	if err != nil {
		log.Error("failed to list lessons", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list lessons"))
		return
	}
	if lessons == nil {
		lessons = []*models.Lesson{}
	}

	log.Info("listed lessons", slog.Int("count", len(lessons)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"lessons": lessons,
	}))
}
