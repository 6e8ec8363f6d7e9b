// Package update реализует HTTP-обработчик обновления налоговой оценки.
//
// Сервер заново рассчитывает резервируемую сумму из нового процента и
// текущего дохода. Если записи ещё нет, обработчик отвечает 404 — клиент
// должен сначала создать оценку.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/payasyougo/payasyougo/internal/http/middlewarectx"
	"github.com/payasyougo/payasyougo/internal/http/response"
	"github.com/payasyougo/payasyougo/internal/lib/sl"
	"github.com/payasyougo/payasyougo/internal/models"
	services "github.com/payasyougo/payasyougo/internal/services/taxestim"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
)

// Handler обрабатывает запросы на обновление налоговой оценки.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики налоговой оценки
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики обновления налоговой оценки.
type Service interface {
	Update(ctx context.Context, userUID string, percentage float64) (*models.TaxEstimation, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить налоговую оценку
// @Description Пересчитывает резервируемую сумму из нового процента и текущего дохода.
// @Tags TaxEstimation
// @Accept  json
// @Produce  json
// @Param request body models.DummyTaxEstimation true "Новый процент налога"
// @Success 200 {object} response.Response "Обновлённая оценка"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 404 {object} response.Response "Оценка ещё не создана"
// @Failure 422 {object} response.Response "Процент вне диапазона"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /tax-estimation [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.taxestimation.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTaxEstimation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.Update(r.Context(), userUID, *req.TaxPercentage)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Warn("tax estimation not found", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("tax estimation not found"))
		case errors.Is(err, services.ErrInvalidPercentage):
			log.Warn("invalid tax percentage", slog.Any("percentage", req.TaxPercentage))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("tax percentage must be between 0 and 100"))
		default:
			log.Error("failed to update tax estimation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update tax estimation"))
		}
		return
	}

	log.Info("success to update tax estimation", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"tax_estimation": res,
	}))
}
