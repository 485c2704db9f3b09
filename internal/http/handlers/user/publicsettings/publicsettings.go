// Package publicsettings реализует HTTP-обработчик публичных настроек магазина.
//
// Эндпоинт открыт без аутентификации: фронтенду нужны платёжные реквизиты
// и контакт администратора до входа пользователя.
package publicsettings

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/atompoint/internal/http/response"
	"github.com/magabrotheeeer/atompoint/internal/lib/sl"
	"github.com/magabrotheeeer/atompoint/internal/services/settings"
)

// Handler обрабатывает HTTP-запросы публичных настроек.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики настроек.
type Service interface {
	Public(ctx context.Context) (*settings.PublicSettings, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Публичные настройки магазина
// @Description Возвращает контакт администратора и активные платёжные реквизиты.
// @Tags Users
// @Produce  json
// @Success 200 {object} map[string]any "Настройки магазина"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/settings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.publicsettings"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	public, err := h.service.Public(r.Context())
	if err != nil {
		log.Error("failed to load settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load settings"))
		return
	}

	render.JSON(w, r, response.OKWithData(public))
}
