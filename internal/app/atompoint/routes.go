package atompoint

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/atompoint/internal/config"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/admin/banuser"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/admin/broadcast"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/admin/orderlist"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/admin/orderstatus"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/admin/paymentaccount"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/admin/productcreate"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/admin/productremove"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/admin/productupdate"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/admin/setting"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/admin/userlist"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/health"
	orderscreatecredit "github.com/magabrotheeeer/atompoint/internal/http/handlers/order/createcredit"
	orderscreateproduct "github.com/magabrotheeeer/atompoint/internal/http/handlers/order/createproduct"
	orderslist "github.com/magabrotheeeer/atompoint/internal/http/handlers/order/list"
	productlist "github.com/magabrotheeeer/atompoint/internal/http/handlers/product/list"
	productread "github.com/magabrotheeeer/atompoint/internal/http/handlers/product/read"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/user/clearnotifications"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/user/profile"
	"github.com/magabrotheeeer/atompoint/internal/http/handlers/user/publicsettings"
	"github.com/magabrotheeeer/atompoint/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/atompoint/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/atompoint/internal/services/catalog"
	orderservice "github.com/magabrotheeeer/atompoint/internal/services/order"
	settingsservice "github.com/magabrotheeeer/atompoint/internal/services/settings"
	userservice "github.com/magabrotheeeer/atompoint/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.Service,
	userService *userservice.Service,
	catalogService *catalogservice.Service,
	orderService *orderservice.Service,
	settingsService *settingsservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService, cfg.TokenTTL).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService, cfg.TokenTTL).ServeHTTP)
		r.Post("/auth/logout", logout.New(logger).ServeHTTP)
		r.Get("/users/settings", publicsettings.New(logger, settingsService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(logger, authService))
			r.Use(middlewarectx.RateLimit)

			r.Get("/auth/me", profile.New(logger, userService).ServeHTTP)
			r.Get("/users/profile", profile.New(logger, userService).ServeHTTP)
			r.Post("/users/clear-notifications", clearnotifications.New(logger, userService).ServeHTTP)

			r.Get("/products", productlist.New(logger, catalogService).ServeHTTP)
			r.Get("/products/{id}", productread.New(logger, catalogService).ServeHTTP)

			r.Get("/orders", orderslist.New(logger, orderService).ServeHTTP)
			r.Post("/orders/credit", orderscreatecredit.New(logger, orderService).ServeHTTP)
			r.Post("/orders/product", orderscreateproduct.New(logger, orderService).ServeHTTP)

			// Группа администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))

				r.Post("/auth/reset-password", resetpassword.New(logger, authService).ServeHTTP)
				r.Get("/admin/users", userlist.New(logger, userService).ServeHTTP)
				r.Put("/admin/users/{id}/ban", banuser.New(logger, userService).ServeHTTP)
				r.Get("/admin/orders", orderlist.New(logger, orderService).ServeHTTP)
				r.Put("/admin/orders/{id}", orderstatus.New(logger, orderService).ServeHTTP)
				r.Post("/admin/broadcast", broadcast.New(logger, userService).ServeHTTP)
				r.Put("/admin/payment-accounts", paymentaccount.New(logger, settingsService).ServeHTTP)
				r.Put("/admin/settings", setting.New(logger, settingsService).ServeHTTP)
				r.Post("/admin/products", productcreate.New(logger, catalogService).ServeHTTP)
				r.Put("/admin/products/{id}", productupdate.New(logger, catalogService).ServeHTTP)
				r.Delete("/admin/products/{id}", productremove.New(logger, catalogService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
