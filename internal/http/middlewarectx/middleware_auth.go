// Package middlewarectx содержит HTTP-middleware аутентификации и авторизации,
// а также типизированные ключи контекста запроса.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/atompoint/internal/http/response"
	"github.com/magabrotheeeer/atompoint/internal/lib/cookie"
	"github.com/magabrotheeeer/atompoint/internal/lib/sl"
	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/services/auth"
)

// Key типизированный ключ контекста запроса.
type Key string

// UserKey ключ, под которым в контексте хранится аутентифицированный пользователь.
const UserKey Key = "user"

// AuthService проверяет токен и возвращает актуального пользователя.
type AuthService interface {
	VerifyToken(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware извлекает токен из cookie или заголовка Authorization,
// проверяет его и кладёт пользователя в контекст запроса.
// Заблокированный пользователь получает 403 даже с валидным токеном.
func AuthMiddleware(log *slog.Logger, authService AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authorization required"))
				return
			}

			user, err := authService.VerifyToken(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrBanned):
					log.Warn("banned user request", slog.String("path", r.URL.Path))
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("account is banned"))
				default:
					log.Info("token verification failed", sl.Err(err))
					w.WriteHeader(http.StatusUnauthorized)
					render.JSON(w, r, response.Error("invalid or expired token"))
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext достаёт пользователя, помещённого AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(cookie.Name); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
