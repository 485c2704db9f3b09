package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

// ListProducts возвращает товары каталога, отсортированные по оператору
// и категории. При onlyAvailable выбираются только доступные.
func (s *Storage) ListProducts(_ context.Context, onlyAvailable bool) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Product
	for _, p := range s.products {
		if onlyAvailable && !p.Available {
			continue
		}
		product := *p
		result = append(result, &product)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Operator != result[j].Operator {
			return result[i].Operator < result[j].Operator
		}
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetProduct возвращает товар по id.
func (s *Storage) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	const op = "memory.GetProduct"
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
	}
	product := *p
	return &product, nil
}

// CreateProduct добавляет новый товар в каталог.
func (s *Storage) CreateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := *product
	stored.ID = s.nextProductID
	s.nextProductID++
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.products[stored.ID] = &stored
	created := stored
	return &created, nil
}

// UpdateProduct обновляет все редактируемые поля товара.
func (s *Storage) UpdateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	const op = "memory.UpdateProduct"
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
	}
	existing.Operator = product.Operator
	existing.Category = product.Category
	existing.Name = product.Name
	existing.PriceMMK = product.PriceMMK
	existing.PriceCr = product.PriceCr
	existing.Available = product.Available
	existing.UpdatedAt = time.Now()
	updated := *existing
	return &updated, nil
}

// DeleteProduct удаляет товар из каталога.
func (s *Storage) DeleteProduct(_ context.Context, id int64) error {
	const op = "memory.DeleteProduct"
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
	}
	delete(s.products, id)
	return nil
}
