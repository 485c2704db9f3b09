// Package createcredit реализует HTTP-обработчик заявок на покупку кредитов.
//
// Пользователь переводит деньги на платёжные реквизиты магазина вручную и
// прикладывает подтверждение платежа. Заявка ждет решения администратора.
package createcredit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/atompoint/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atompoint/internal/http/response"
	"github.com/magabrotheeeer/atompoint/internal/lib/sl"
	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/services/order"
)

// Request — структура входных данных заявки на кредиты.
//
// Amount задается в MMK, ProofImage — подтверждение платежа (data URL или ссылка).
type Request struct {
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	ProofImage string `json:"proofImage" validate:"required"`
}

// Handler обрабатывает HTTP-запросы на создание заявок на кредиты.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики заявок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики заявок на кредиты.
type Service interface {
	CreateCreditOrder(ctx context.Context, user *models.User, amount int64, proofImage string) (*models.Order, error)
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
// @Summary Создать заявку на покупку кредитов
// @Description Регистрирует заявку с подтверждением платежа. Заявка ждет решения администратора.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body Request true "Сумма в MMK и подтверждение платежа"
// @Success 201 {object} map[string]any "Заявка создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или сумма ниже минимума"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /orders/credit [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.createcredit"

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

	created, err := h.service.CreateCreditOrder(r.Context(), user, req.Amount, req.ProofImage)
	if err != nil {
		if errors.Is(err, order.ErrBelowMinimum) {
			log.Info("amount below minimum", slog.Int64("amount", req.Amount))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("amount is below the minimum"))
			return
		}
		log.Error("failed to create credit order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create order"))
		return
	}

	log.Info("credit order created",
		slog.Int64("order_id", created.ID),
		slog.Int64("user_id", user.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order": created,
	}))
}
