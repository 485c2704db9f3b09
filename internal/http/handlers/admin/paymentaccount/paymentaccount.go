// Package paymentaccount реализует HTTP-обработчик управления платёжными реквизитами.
package paymentaccount

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
	"github.com/magabrotheeeer/atompoint/internal/models"
)

// Request — структура входных данных платёжных реквизитов.
type Request struct {
	Provider string `json:"provider" validate:"required,min=2,max=50"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Number   string `json:"number" validate:"required,min=4,max=50"`
	Active   bool   `json:"active"`
}

// Handler обрабатывает HTTP-запросы управления платёжными реквизитами.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики платёжных реквизитов.
type Service interface {
	UpsertPaymentAccount(ctx context.Context, account *models.PaymentAccount) (*models.PaymentAccount, error)
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
// @Summary Создать или обновить платёжные реквизиты
// @Description Сохраняет реквизиты провайдера. Существующий провайдер перезаписывается.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Реквизиты провайдера"
// @Success 200 {object} map[string]any "Реквизиты сохранены"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/payment-accounts [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.paymentaccount"

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

	saved, err := h.service.UpsertPaymentAccount(r.Context(), &models.PaymentAccount{
		Provider: req.Provider,
		Name:     req.Name,
		Number:   req.Number,
		Active:   req.Active,
	})
	if err != nil {
		log.Error("failed to save payment account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save payment account"))
		return
	}

	log.Info("payment account saved", slog.String("provider", saved.Provider))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payment_account": saved,
	}))
}
