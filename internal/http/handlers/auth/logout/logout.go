// Package logout реализует HTTP-обработчик выхода пользователя.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/atompoint/internal/http/response"
	"github.com/magabrotheeeer/atompoint/internal/lib/cookie"
)

// Handler обрабатывает HTTP-запросы на выход.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Удаляет cookie с jwt-токеном.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Успешный выход"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cookie.Clear(w)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "logged out",
	}))
}
