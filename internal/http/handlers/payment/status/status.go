// Package status реализует HTTP-обработчик сверки статуса платежа со шлюзом.
//
// Статус шлюза возвращается без преобразований. Платёж без сессии шлюза
// сверить нельзя — это ошибка запроса.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-backend/internal/http/response"
	"github.com/magabrotheeeer/lms-backend/internal/lib/sl"
	"github.com/magabrotheeeer/lms-backend/internal/paymentprovider"
	payment "github.com/magabrotheeeer/lms-backend/internal/services/payment"
	"github.com/magabrotheeeer/lms-backend/internal/storage/repository"
)

// Handler обрабатывает запросы на сверку статуса платежа.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики платежей
}

// Service описывает интерфейс бизнес-логики сверки статуса.
type Service interface {
	Status(ctx context.Context, id int) (string, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус платежа
// @Description Запрашивает у платёжного шлюза статус сессии платежа и возвращает его без преобразований.
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} map[string]any "Статус платежа"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или платёж без сессии"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Failure 502 {object} response.ErrorResponse "Платёжный шлюз недоступен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/{id}/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payment id"))
		return
	}

	result, err := h.service.Status(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("payment not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment not found"))
		case errors.Is(err, payment.ErrNoSession):
			log.Error("payment has no gateway session", slog.Int("id", id))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment has no gateway session"))
		case errors.Is(err, paymentprovider.ErrGatewayUnavailable):
			log.Error("payment gateway unavailable", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment gateway unavailable"))
		default:
			log.Error("failed to get payment status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not get payment status"))
		}
		return
	}

	log.Info("payment status checked", slog.Int("id", id), slog.String("status", result))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payment_id":     id,
		"payment_status": result,
	}))
}
