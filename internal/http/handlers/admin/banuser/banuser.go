// Package banuser реализует HTTP-обработчик блокировки и разблокировки пользователей.
package banuser

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

	"github.com/magabrotheeeer/atompoint/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atompoint/internal/http/response"
	"github.com/magabrotheeeer/atompoint/internal/lib/sl"
	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

// Request — структура входных данных блокировки.
type Request struct {
	Banned bool `json:"banned"`
}

// Handler обрабатывает HTTP-запросы на блокировку пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики блокировки.
type Service interface {
	SetBanned(ctx context.Context, userID int64, banned bool) (*models.User, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заблокировать или разблокировать пользователя
// @Description Меняет признак блокировки. Блокировка вступает в силу при следующем запросе пользователя.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path int true "ID пользователя"
// @Param request body Request true "Признак блокировки"
// @Success 200 {object} map[string]any "Пользователь обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users/{id}/ban [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.banuser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid user id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	// Администратор не может заблокировать сам себя.
	if admin, ok := middlewarectx.UserFromContext(r.Context()); ok && admin.ID == id && req.Banned {
		log.Warn("self-ban attempt", slog.Int64("user_id", id))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("cannot ban yourself"))
		return
	}

	user, err := h.service.SetBanned(r.Context(), id, req.Banned)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to update ban status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update user"))
		return
	}

	log.Info("ban status updated",
		slog.Int64("user_id", user.ID),
		slog.Bool("banned", user.Banned))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user.Public(),
	}))
}
