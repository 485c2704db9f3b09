// Package productupdate реализует HTTP-обработчик изменения товара в каталоге.
package productupdate

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

// Request — структура входных данных изменения товара.
type Request struct {
	Operator  string `json:"operator" validate:"required,min=2,max=50"`
	Category  string `json:"category" validate:"required,min=2,max=50"`
	Name      string `json:"name" validate:"required,min=1,max=100"`
	PriceMMK  int64  `json:"price_mmk" validate:"gte=0"`
	PriceCr   int64  `json:"price_cr" validate:"required,gt=0"`
	Available bool   `json:"available"`
}

// Handler обрабатывает HTTP-запросы на изменение товара.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики изменения товара.
type Service interface {
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
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
// @Summary Изменить товар
// @Description Полностью обновляет товар по идентификатору.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path int true "ID товара"
// @Param request body Request true "Новые данные товара"
// @Success 200 {object} map[string]any "Товар обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/products/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.productupdate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid product id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid product id"))
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

	updated, err := h.service.Update(r.Context(), &models.Product{
		ID:        id,
		Operator:  req.Operator,
		Category:  req.Category,
		Name:      req.Name,
		PriceMMK:  req.PriceMMK,
		PriceCr:   req.PriceCr,
		Available: req.Available,
	})
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product not found"))
			return
		}
		log.Error("failed to update product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update product"))
		return
	}

	log.Info("product updated", slog.Int64("product_id", updated.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"product": updated,
	}))
}
