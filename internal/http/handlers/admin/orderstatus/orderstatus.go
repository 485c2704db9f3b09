// Package orderstatus реализует HTTP-обработчик решения администратора по заявке.
//
// Одобрение заявки на кредиты зачисляет кредиты владельцу. Решение принимается
// только по заявкам в статусе PENDING, повторное решение отклоняется.
package orderstatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/atompoint/internal/http/response"
	"github.com/magabrotheeeer/atompoint/internal/lib/sl"
	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

// Request — структура входных данных решения по заявке.
type Request struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

// Handler обрабатывает HTTP-запросы решения по заявке.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики заявок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики решения по заявке.
type Service interface {
	SetStatus(ctx context.Context, orderID int64, status string) (*models.Order, error)
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
// @Summary Решение по заявке
// @Description Одобряет или отклоняет заявку в статусе PENDING. Одобрение заявки на кредиты зачисляет кредиты владельцу.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path int true "ID заявки"
// @Param request body Request true "Новый статус: APPROVED или REJECTED"
// @Success 200 {object} map[string]any "Заявка обновлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Решение по заявке уже принято"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/orders/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.orderstatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid order id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid order id"))
		return
	}

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

	updated, err := h.service.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("order not found"))
		case errors.Is(err, storage.ErrOrderNotPending):
			log.Info("order already settled", slog.Int64("order_id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("order is already settled"))
		default:
			log.Error("failed to update order status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update order"))
		}
		return
	}

	log.Info("order status updated",
		slog.Int64("order_id", updated.ID),
		slog.String("status", updated.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order": updated,
	}))
}
