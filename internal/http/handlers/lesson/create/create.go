// Package create реализует HTTP-обработчик создания урока.
//
// Ссылка на видео проверяется правилом video_host: допустим только
// разрешённый видеохостинг. Модераторы создавать уроки не могут.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-backend/internal/http/response"
	"github.com/magabrotheeeer/lms-backend/internal/lib/sl"
	"github.com/magabrotheeeer/lms-backend/internal/models"
	"github.com/magabrotheeeer/lms-backend/internal/policy"
	lesson "github.com/magabrotheeeer/lms-backend/internal/services/lesson"
)

// Handler управляет HTTP-запросами на создание уроков.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики уроков
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания урока.
type Service interface {
	Create(ctx context.Context, ownerUID string, req models.DummyLesson) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	validate := validator.New()
	if err := lesson.RegisterVideoHostValidation(validate); err != nil {
		log.Error("failed to register video_host validation", sl.Err(err))
	}
	return &Handler{
		log:      log,
		service:  service,
		validate: validate,
	}
}

// ServeHTTP godoc
// @Summary Создать урок
// @Description Создает новый урок в курсе. Ссылка на видео должна вести на youtube.com.
// @Tags Lessons
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyLesson true "Данные нового урока"
// @Success 201 {object} map[string]any "Урок создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Создание запрещено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /lessons [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLesson
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	subject := middlewarectx.SubjectFromContext(r.Context())
	switch policy.Decide(subject, policy.ActionCreate, policy.Resource{}) {
	case policy.EffectUnauthenticated:
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	case policy.EffectForbidden:
		log.Error("create forbidden for moderator", slog.String("user_uid", subject.UID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("forbidden"))
		return
	case policy.EffectAllow:
	}

	id, err := h.service.Create(r.Context(), subject.UID, req)
	if err != nil {
		log.Error("failed to create lesson", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create lesson"))
		return
	}

	log.Info("created new lesson", slog.Int("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
