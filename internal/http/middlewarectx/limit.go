package middlewarectx

import (
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/atompoint/internal/http/response"
)

// RateLimit ограничивает общий поток запросов через токен-бакет.
func RateLimit(next http.Handler) http.Handler {
	limiter := rate.NewLimiter(10, 30)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.Error("too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
