// Package user реализует операции над профилем и административное
// управление пользователями.
package user

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/atompoint/internal/models"
)

// Repository описывает операции хранилища над пользователями.
type Repository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	SetBanned(ctx context.Context, id int64, banned bool) (*models.User, error)
	ClearNotifications(ctx context.Context, userID int64) error
	BroadcastNotification(ctx context.Context, text string, targetIDs []int64) (int64, error)
}

// Service управляет пользователями.
type Service struct {
	repo Repository
}

// New создает новый экземпляр Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Profile возвращает актуальный профиль пользователя.
func (s *Service) Profile(ctx context.Context, userID int64) (*models.User, error) {
	const op = "services.user.Profile"

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ClearNotifications очищает список уведомлений пользователя.
func (s *Service) ClearNotifications(ctx context.Context, userID int64) error {
	const op = "services.user.ClearNotifications"

	if err := s.repo.ClearNotifications(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// List возвращает всех пользователей для панели администратора.
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	const op = "services.user.List"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// SetBanned блокирует или разблокирует пользователя.
// Блокировка вступает в силу при следующем запросе с его токеном.
func (s *Service) SetBanned(ctx context.Context, userID int64, banned bool) (*models.User, error) {
	const op = "services.user.SetBanned"

	user, err := s.repo.SetBanned(ctx, userID, banned)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Broadcast рассылает уведомление. Пустой список targetIDs означает
// рассылку всем пользователям. Возвращает число получателей.
func (s *Service) Broadcast(ctx context.Context, text string, targetIDs []int64) (int64, error) {
	const op = "services.user.Broadcast"

	count, err := s.repo.BroadcastNotification(ctx, text, targetIDs)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
