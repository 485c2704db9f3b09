package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

const orderColumns = `id, reference, user_id, type, amount, proof_image, product_id,
			      status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	o := &models.Order{}
	var proofImage sql.NullString
	var productID sql.NullInt64
	if err := row.Scan(&o.ID, &o.Reference, &o.UserID, &o.Type, &o.Amount,
		&proofImage, &productID, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if proofImage.Valid {
		o.ProofImage = proofImage.String
	}
	if productID.Valid {
		o.ProductID = &productID.Int64
	}
	return o, nil
}

// InsertOrder сохраняет заказ как есть, без изменения баланса.
// Используется для заявок на пополнение кредитов (статус PENDING).
func (s *Storage) InsertOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	const op = "postgres.InsertOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var proofImage sql.NullString
	if order.ProofImage != "" {
		proofImage = sql.NullString{String: order.ProofImage, Valid: true}
	}

	query := `INSERT INTO orders (reference, user_id, type, amount, proof_image, product_id, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + orderColumns
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query,
		order.Reference, order.UserID, order.Type, order.Amount,
		proofImage, order.ProductID, order.Status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// PurchaseProduct атомарно оформляет покупку товара: в одной транзакции
// перечитывает цену, списывает кредиты условным UPDATE и вставляет заказ
// со статусом APPROVED. Два конкурентных вызова не могут оба пройти,
// если баланса хватает только на один.
func (s *Storage) PurchaseProduct(ctx context.Context, userID, productID int64, reference string) (*models.Order, error) {
	const op = "postgres.PurchaseProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var priceCr int64
	err = tx.QueryRowContext(ctx,
		`SELECT price_cr FROM products WHERE id = $1 AND available = TRUE`,
		productID).Scan(&priceCr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET credits = credits - $2, updated_at = NOW()
		 WHERE id = $1 AND credits >= $2`,
		userID, priceCr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInsufficientCredits)
	}

	query := `INSERT INTO orders (reference, user_id, type, amount, product_id, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + orderColumns
	o, err := scanOrder(tx.QueryRowContext(ctx, query,
		reference, userID, models.OrderTypeProduct, priceCr, productID,
		models.OrderStatusApproved))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// GetOrder возвращает заказ по id.
func (s *Storage) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	const op = "postgres.GetOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// SettleOrder переводит заказ из PENDING в новый статус и, если creditGrant > 0,
// начисляет владельцу кредиты в той же транзакции. Условие status = 'PENDING'
// в UPDATE исключает повторное одобрение и двойное начисление.
func (s *Storage) SettleOrder(ctx context.Context, id int64, status string, creditGrant int64) (*models.Order, error) {
	const op = "postgres.SettleOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE orders SET status = $2, updated_at = NOW()
			  WHERE id = $1 AND status = $3
			  RETURNING ` + orderColumns
	o, err := scanOrder(tx.QueryRowContext(ctx, query, id, status, models.OrderStatusPending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if qErr := s.DB.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); qErr != nil {
				return nil, fmt.Errorf("%s: %w", op, qErr)
			}
			if !exists {
				return nil, fmt.Errorf("%s: %w", op, storage.ErrOrderNotFound)
			}
			return nil, fmt.Errorf("%s: %w", op, storage.ErrOrderNotPending)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if creditGrant > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET credits = credits + $2, updated_at = NOW() WHERE id = $1`,
			o.UserID, creditGrant)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// ListOrdersByUser возвращает заказы пользователя, новые первыми.
func (s *Storage) ListOrdersByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "postgres.ListOrdersByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllOrders возвращает все заказы с именами владельцев, новые первыми.
func (s *Storage) ListAllOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "postgres.ListAllOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT o.id, o.reference, o.user_id, o.type, o.amount, o.proof_image,
			      o.product_id, o.status, o.created_at, o.updated_at, u.username
			  FROM orders o
			  JOIN users u ON u.id = o.user_id
			  ORDER BY o.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		o := &models.Order{}
		var proofImage sql.NullString
		var productID sql.NullInt64
		if err = rows.Scan(&o.ID, &o.Reference, &o.UserID, &o.Type, &o.Amount,
			&proofImage, &productID, &o.Status, &o.CreatedAt, &o.UpdatedAt,
			&o.Username); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if proofImage.Valid {
			o.ProofImage = proofImage.String
		}
		if productID.Valid {
			o.ProductID = &productID.Int64
		}
		result = append(result, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
