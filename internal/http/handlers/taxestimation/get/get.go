// Package get реализует HTTP-обработчик чтения налоговой оценки пользователя.
//
// Пока пользователь ни разу не задал процент, записи нет и обработчик
// отвечает 404 — для клиента это штатный сигнал показать пустую форму.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/payasyougo/payasyougo/internal/http/middlewarectx"
	"github.com/payasyougo/payasyougo/internal/http/response"
	"github.com/payasyougo/payasyougo/internal/lib/sl"
	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
)

// Handler обрабатывает запросы на получение налоговой оценки.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики налоговой оценки
}

// Service описывает интерфейс бизнес-логики чтения налоговой оценки.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.TaxEstimation, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить налоговую оценку
// @Description Возвращает налоговую оценку текущего пользователя.
// @Tags TaxEstimation
// @Produce  json
// @Success 200 {object} response.Response "Налоговая оценка"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 404 {object} response.Response "Оценка ещё не создана"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /tax-estimation [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.taxestimation.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.Get(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("tax estimation not found", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("tax estimation not found"))
			return
		}
		log.Error("failed to read tax estimation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read tax estimation"))
		return
	}

	log.Info("success to read tax estimation", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"tax_estimation": res,
	}))
}
