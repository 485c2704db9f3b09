// Package broadcast реализует HTTP-обработчик рассылки уведомлений пользователям.
package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/atompoint/internal/http/response"
	"github.com/magabrotheeeer/atompoint/internal/lib/sl"
)

// Request — структура входных данных рассылки.
//
// Пустой список TargetIDs означает рассылку всем пользователям.
type Request struct {
	Message   string  `json:"message" validate:"required,min=1,max=1000"`
	TargetIDs []int64 `json:"targetIds"`
}

// Handler обрабатывает HTTP-запросы рассылки уведомлений.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики рассылки.
type Service interface {
	Broadcast(ctx context.Context, text string, targetIDs []int64) (int64, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Рассылка уведомлений
// @Description Добавляет уведомление выбранным пользователям или всем сразу. Возвращает число получателей.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Текст уведомления и получатели"
// @Success 200 {object} map[string]any "Рассылка выполнена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/broadcast [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.broadcast"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
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

	count, err := h.service.Broadcast(r.Context(), req.Message, req.TargetIDs)
	if err != nil {
		log.Error("failed to broadcast notification", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not broadcast notification"))
		return
	}

	log.Info("notification broadcast", slog.Int64("recipients", count))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count": count,
	}))
}
