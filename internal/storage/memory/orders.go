package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

// InsertOrder сохраняет заказ как есть, без изменения баланса.
func (s *Storage) InsertOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := cloneOrder(order)
	stored.ID = s.nextOrderID
	s.nextOrderID++
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.orders[stored.ID] = stored
	return cloneOrder(stored), nil
}

// PurchaseProduct оформляет покупку товара: перечитывает цену, списывает
// кредиты и добавляет заказ APPROVED под одним мьютексом, поэтому два
// конкурентных вызова не могут оба пройти на один и тот же остаток.
func (s *Storage) PurchaseProduct(_ context.Context, userID, productID int64, reference string) (*models.Order, error) {
	const op = "memory.PurchaseProduct"
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok || !p.Available {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
	}
	if err := s.adjustCreditsLocked(userID, -p.PriceCr); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	pid := productID
	order := &models.Order{
		ID:        s.nextOrderID,
		Reference: reference,
		UserID:    userID,
		Type:      models.OrderTypeProduct,
		Amount:    p.PriceCr,
		ProductID: &pid,
		Status:    models.OrderStatusApproved,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextOrderID++
	s.orders[order.ID] = order
	return cloneOrder(order), nil
}

// GetOrder возвращает заказ по id.
func (s *Storage) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	const op = "memory.GetOrder"
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrOrderNotFound)
	}
	return cloneOrder(o), nil
}

// SettleOrder переводит заказ из PENDING в новый статус и, если creditGrant > 0,
// начисляет владельцу кредиты. Проверка статуса и начисление выполняются
// под одним мьютексом — повторное одобрение невозможно.
func (s *Storage) SettleOrder(_ context.Context, id int64, status string, creditGrant int64) (*models.Order, error) {
	const op = "memory.SettleOrder"
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrOrderNotFound)
	}
	if o.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrOrderNotPending)
	}

	o.Status = status
	o.UpdatedAt = time.Now()
	if creditGrant > 0 {
		if u, ok := s.users[o.UserID]; ok {
			u.Credits += creditGrant
			u.UpdatedAt = time.Now()
		}
	}
	return cloneOrder(o), nil
}

// ListOrdersByUser возвращает заказы пользователя, новые первыми.
func (s *Storage) ListOrdersByUser(_ context.Context, userID int64) ([]*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			result = append(result, cloneOrder(o))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// ListAllOrders возвращает все заказы с именами владельцев, новые первыми.
func (s *Storage) ListAllOrders(_ context.Context) ([]*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Order
	for _, o := range s.orders {
		c := cloneOrder(o)
		if u, ok := s.users[o.UserID]; ok {
			c.Username = u.Username
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
