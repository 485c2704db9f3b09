// Package atompoint собирает приложение магазина: хранилище, кэш,
// сервисы и HTTP-сервер с graceful shutdown.
package atompoint

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/atompoint/internal/cache"
	"github.com/magabrotheeeer/atompoint/internal/config"
	"github.com/magabrotheeeer/atompoint/internal/lib/jwt"
	"github.com/magabrotheeeer/atompoint/internal/lib/sl"
	"github.com/magabrotheeeer/atompoint/internal/migrations"
	authservice "github.com/magabrotheeeer/atompoint/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/atompoint/internal/services/catalog"
	orderservice "github.com/magabrotheeeer/atompoint/internal/services/order"
	settingsservice "github.com/magabrotheeeer/atompoint/internal/services/settings"
	userservice "github.com/magabrotheeeer/atompoint/internal/services/user"
	"github.com/magabrotheeeer/atompoint/internal/storage/memory"
	"github.com/magabrotheeeer/atompoint/internal/storage/postgres"
)

// store объединяет все операции хранилища, которые нужны сервисам.
// Его реализуют и постоянное хранилище postgres, и резервное в памяти.
type store interface {
	authservice.UserRepository
	userservice.Repository
	catalogservice.ProductRepository
	orderservice.OrderRepository
	orderservice.Notifier
	settingsservice.Repository
}

// App инкапсулирует HTTP-сервер и подключения к внешним системам.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *postgres.Storage // nil при работе на хранилище в памяти
	cache  *cache.Cache      // nil при недоступном Redis
}

// New инициализирует приложение. При недоступном postgres поднимается
// хранилище в памяти с демо-данными, при недоступном Redis каталог
// работает без кэша.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var (
		repo store
		db   *postgres.Storage
	)
	db, err := postgres.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Warn("postgres unavailable, falling back to in-memory storage with demo data", sl.Err(err))
		db = nil
		repo = memory.NewWithDemoData()
	} else {
		if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		repo = db
	}

	var catalogCache catalogservice.Cache
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", sl.Err(err))
		cacheRedis = nil
	} else {
		catalogCache = cacheRedis
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(repo, jwtMaker)
	userService := userservice.New(repo)
	catalogService := catalogservice.New(logger, repo, catalogCache)
	orderService := orderservice.New(logger, repo, repo, repo,
		cfg.MinCreditAmount, cfg.CreditExchangeRate)
	settingsService := settingsservice.New(repo)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg,
		authService, userService, catalogService, orderService, settingsService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.db != nil {
			a.db.Close()
		}
		if a.cache != nil {
			_ = a.cache.Db.Close()
		}
		return err
	}
}
