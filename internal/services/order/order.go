// Package order реализует бизнес-логику заявок: покупку кредитов,
// покупку товаров за кредиты и решения администратора по заявкам.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/atompoint/internal/lib/sl"
	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

// ErrBelowMinimum возвращается при сумме пополнения ниже допустимого минимума.
var ErrBelowMinimum = errors.New("amount is below the minimum")

// OrderRepository описывает операции хранилища над заявками.
type OrderRepository interface {
	InsertOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	PurchaseProduct(ctx context.Context, userID, productID int64, reference string) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	SettleOrder(ctx context.Context, id int64, status string, creditGrant int64) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	ListAllOrders(ctx context.Context) ([]*models.Order, error)
}

// ProductRepository читает товары при оформлении покупки.
type ProductRepository interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// Notifier доставляет уведомления пользователям и администраторам.
type Notifier interface {
	PushNotification(ctx context.Context, userID int64, text string) error
	NotifyAdmins(ctx context.Context, text string) error
}

// Service управляет жизненным циклом заявок.
type Service struct {
	log      *slog.Logger
	orders   OrderRepository
	products ProductRepository
	notifier Notifier

	minCreditAmount    int64
	creditExchangeRate int64
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, orders OrderRepository, products ProductRepository,
	notifier Notifier, minCreditAmount, creditExchangeRate int64) *Service {
	return &Service{
		log:                log,
		orders:             orders,
		products:           products,
		notifier:           notifier,
		minCreditAmount:    minCreditAmount,
		creditExchangeRate: creditExchangeRate,
	}
}

// CreateCreditOrder регистрирует заявку на покупку кредитов.
// Заявка создаётся в статусе PENDING и ждёт решения администратора,
// баланс пользователя на этом шаге не меняется.
func (s *Service) CreateCreditOrder(ctx context.Context, user *models.User, amount int64, proofImage string) (*models.Order, error) {
	const op = "services.order.CreateCreditOrder"

	if amount < s.minCreditAmount {
		return nil, ErrBelowMinimum
	}

	order, err := s.orders.InsertOrder(ctx, &models.Order{
		Reference:  uuid.NewString(),
		UserID:     user.ID,
		Type:       models.OrderTypeCredit,
		Amount:     amount,
		ProofImage: proofImage,
		Status:     models.OrderStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifyAdmins(ctx, fmt.Sprintf("New credit order from %s: %d MMK", user.Username, amount))
	return order, nil
}

// CreateProductOrder покупает товар за кредиты. Списание баланса и создание
// заявки происходят атомарно, заявка сразу получает статус APPROVED.
func (s *Service) CreateProductOrder(ctx context.Context, user *models.User, productID int64) (*models.Order, error) {
	const op = "services.order.CreateProductOrder"

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !product.Available {
		return nil, storage.ErrProductNotFound
	}

	order, err := s.orders.PurchaseProduct(ctx, user.ID, productID, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifyAdmins(ctx, fmt.Sprintf("User %s bought %s for %d credits", user.Username, product.Name, product.PriceCr))
	return order, nil
}

// SetStatus проставляет решение администратора по заявке.
// Одобрение заявки на кредиты зачисляет пользователю amount, делённый на курс.
// Решение принимается только по заявкам в статусе PENDING, повторное
// одобрение невозможно.
func (s *Service) SetStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	const op = "services.order.SetStatus"

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var creditGrant int64
	if order.Type == models.OrderTypeCredit && status == models.OrderStatusApproved {
		creditGrant = order.Amount / s.creditExchangeRate
	}

	updated, err := s.orders.SettleOrder(ctx, orderID, status, creditGrant)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var text string
	switch {
	case creditGrant > 0:
		text = fmt.Sprintf("Credit purchase approved! %d credits added to your account.", creditGrant)
	case status == models.OrderStatusApproved:
		text = "Your order has been approved."
	default:
		text = "Your order has been rejected."
	}
	if err := s.notifier.PushNotification(ctx, updated.UserID, text); err != nil {
		s.log.Warn("failed to notify order owner", sl.Err(err))
	}

	return updated, nil
}

// ListForUser возвращает заявки пользователя, новые первыми.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "services.order.ListForUser"

	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// ListAll возвращает заявки всех пользователей для панели администратора.
func (s *Service) ListAll(ctx context.Context) ([]*models.Order, error) {
	const op = "services.order.ListAll"

	orders, err := s.orders.ListAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// Уведомление администраторов не должно ронять оформление заявки.
func (s *Service) notifyAdmins(ctx context.Context, text string) {
	if err := s.notifier.NotifyAdmins(ctx, text); err != nil {
		s.log.Warn("failed to notify admins", sl.Err(err))
	}
}
