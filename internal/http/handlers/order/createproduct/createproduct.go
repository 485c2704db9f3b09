// Package createproduct реализует HTTP-обработчик покупки товара за кредиты.
//
// Списание кредитов и создание заявки выполняются атомарно, покупка
// либо проходит целиком, либо не меняет баланс.
package createproduct

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
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

// Request — структура входных данных покупки товара.
type Request struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

// Handler обрабатывает HTTP-запросы на покупку товара.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики заявок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики покупки товара.
type Service interface {
	CreateProductOrder(ctx context.Context, user *models.User, productID int64) (*models.Order, error)
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
// @Summary Купить товар за кредиты
// @Description Атомарно списывает кредиты и создает одобренную заявку на товар.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body Request true "Идентификатор товара"
// @Success 201 {object} map[string]any "Покупка совершена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или недостаточно кредитов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Товар не найден или недоступен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /orders/product [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.createproduct"

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

	created, err := h.service.CreateProductOrder(r.Context(), user, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrProductNotFound):
			log.Info("product not found", slog.Int64("product_id", req.ProductID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product not found"))
		case errors.Is(err, storage.ErrInsufficientCredits):
			log.Info("insufficient credits", slog.Int64("user_id", user.ID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("insufficient credits"))
		default:
			log.Error("failed to create product order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create order"))
		}
		return
	}

	log.Info("product order created",
		slog.Int64("order_id", created.ID),
		slog.Int64("user_id", user.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order": created,
	}))
}
