// Package productcreate реализует HTTP-обработчик добавления товара в каталог.
package productcreate

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

// Request — структура входных данных нового товара.
type Request struct {
	Operator  string `json:"operator" validate:"required,min=2,max=50"`
	Category  string `json:"category" validate:"required,min=2,max=50"`
	Name      string `json:"name" validate:"required,min=1,max=100"`
	PriceMMK  int64  `json:"price_mmk" validate:"gte=0"`
	PriceCr   int64  `json:"price_cr" validate:"required,gt=0"`
	Available *bool  `json:"available"`
}

// Handler обрабатывает HTTP-запросы на добавление товара.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики добавления товара.
type Service interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
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
// @Summary Добавить товар
// @Description Создает новый товар в каталоге. По умолчанию товар доступен для покупки.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового товара"
// @Success 200 {object} map[string]any "Товар создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/products [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.productcreate"

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

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	created, err := h.service.Create(r.Context(), &models.Product{
		Operator:  req.Operator,
		Category:  req.Category,
		Name:      req.Name,
		PriceMMK:  req.PriceMMK,
		PriceCr:   req.PriceCr,
		Available: available,
	})
	if err != nil {
		log.Error("failed to create product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create product"))
		return
	}

	log.Info("product created", slog.Int64("product_id", created.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"product": created,
	}))
}
