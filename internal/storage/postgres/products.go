package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

const productColumns = `id, operator, category, name, price_mmk, price_cr, available,
			      created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	if err := row.Scan(&p.ID, &p.Operator, &p.Category, &p.Name, &p.PriceMMK, &p.PriceCr,
		&p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts возвращает товары каталога. При onlyAvailable выбираются
// только доступные к покупке. Сортировка по оператору для группировки на клиенте.
func (s *Storage) ListProducts(ctx context.Context, onlyAvailable bool) ([]*models.Product, error) {
	const op = "postgres.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + productColumns + ` FROM products ORDER BY operator ASC, category ASC, id ASC`
	if onlyAvailable {
		query = `SELECT ` + productColumns + ` FROM products WHERE available = TRUE
			  ORDER BY operator ASC, category ASC, id ASC`
	}
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetProduct возвращает товар по id.
func (s *Storage) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "postgres.GetProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// CreateProduct добавляет новый товар в каталог.
func (s *Storage) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	const op = "postgres.CreateProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO products (operator, category, name, price_mmk, price_cr, available)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + productColumns
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query,
		product.Operator, product.Category, product.Name,
		product.PriceMMK, product.PriceCr, product.Available))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdateProduct обновляет все редактируемые поля товара.
func (s *Storage) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	const op = "postgres.UpdateProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products
			  SET operator = $2, category = $3, name = $4, price_mmk = $5, price_cr = $6,
			      available = $7, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + productColumns
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, product.ID,
		product.Operator, product.Category, product.Name,
		product.PriceMMK, product.PriceCr, product.Available))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// DeleteProduct удаляет товар из каталога.
func (s *Storage) DeleteProduct(ctx context.Context, id int64) error {
	const op = "postgres.DeleteProduct"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
	}
	return nil
}
