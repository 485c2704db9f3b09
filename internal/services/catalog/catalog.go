// Package catalog реализует каталог товаров с кэшированием
// сгруппированного списка в Redis.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/atompoint/internal/lib/sl"
	"github.com/magabrotheeeer/atompoint/internal/models"
)

const (
	catalogCacheKey = "products:catalog"
	catalogCacheTTL = 5 * time.Minute
)

// ProductRepository описывает операции хранилища над товарами.
type ProductRepository interface {
	ListProducts(ctx context.Context, onlyAvailable bool) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Cache хранит сгруппированный каталог между запросами.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service управляет каталогом товаров.
// Кэш опционален: при nil все запросы идут напрямую в хранилище.
type Service struct {
	log   *slog.Logger
	repo  ProductRepository
	cache Cache
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo ProductRepository, cache Cache) *Service {
	return &Service{log: log, repo: repo, cache: cache}
}

// List возвращает доступные товары, сгруппированные по оператору и категории.
// Ошибки кэша не прерывают запрос, данные берутся из хранилища.
func (s *Service) List(ctx context.Context) (models.GroupedProducts, error) {
	const op = "services.catalog.List"

	if s.cache != nil {
		var cached models.GroupedProducts
		found, err := s.cache.Get(catalogCacheKey, &cached)
		if err != nil {
			s.log.Warn("catalog cache read failed", sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	products, err := s.repo.ListProducts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	grouped := models.GroupProducts(products)

	if s.cache != nil {
		if err := s.cache.Set(catalogCacheKey, grouped, catalogCacheTTL); err != nil {
			s.log.Warn("catalog cache write failed", sl.Err(err))
		}
	}
	return grouped, nil
}

// ListAll возвращает все товары без группировки, включая недоступные.
func (s *Service) ListAll(ctx context.Context) ([]*models.Product, error) {
	const op = "services.catalog.ListAll"

	products, err := s.repo.ListProducts(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// Get возвращает один товар по идентификатору.
func (s *Service) Get(ctx context.Context, id int64) (*models.Product, error) {
	const op = "services.catalog.Get"

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

// Create добавляет товар и сбрасывает кэш каталога.
func (s *Service) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	const op = "services.catalog.Create"

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate()
	return created, nil
}

// Update изменяет товар и сбрасывает кэш каталога.
func (s *Service) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	const op = "services.catalog.Update"

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate()
	return updated, nil
}

// Delete удаляет товар и сбрасывает кэш каталога.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "services.catalog.Delete"

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate()
	return nil
}

func (s *Service) invalidate() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(catalogCacheKey); err != nil {
		s.log.Warn("catalog cache invalidation failed", sl.Err(err))
	}
}
