// Package cookie управляет cookie с токеном аутентификации.
package cookie

import (
	"net/http"
	"time"
)

// Name имя cookie, в которой хранится jwt-токен.
const Name = "auth_token"

// Set записывает токен в httpOnly cookie со сроком жизни ttl.
func Set(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear удаляет cookie с токеном.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
