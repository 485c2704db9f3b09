package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

// CreateUser сохраняет нового пользователя, проверяя уникальность username.
func (s *Storage) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	const op = "memory.CreateUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
		}
	}

	now := time.Now()
	stored := cloneUser(user)
	stored.ID = s.newUserID()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Notifications == nil {
		stored.Notifications = []string{}
	}
	s.users[stored.ID] = stored
	return cloneUser(stored), nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	const op = "memory.GetUserByUsername"
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
}

// GetUserByID возвращает пользователя по его id.
func (s *Storage) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	const op = "memory.GetUserByID"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return cloneUser(u), nil
}

// ListUsers возвращает всех пользователей с количеством их заказов,
// новые первыми.
func (s *Storage) ListUsers(_ context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordersCount := make(map[int64]int64)
	for _, o := range s.orders {
		ordersCount[o.UserID]++
	}

	result := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		c := cloneUser(u)
		c.OrdersCount = ordersCount[u.ID]
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// SetBanned выставляет флаг блокировки пользователя.
func (s *Storage) SetBanned(_ context.Context, id int64, banned bool) (*models.User, error) {
	const op = "memory.SetBanned"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	u.Banned = banned
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

// AdjustCredits изменяет баланс пользователя на delta, не допуская
// отрицательного результата.
func (s *Storage) AdjustCredits(_ context.Context, id int64, delta int64) error {
	const op = "memory.AdjustCredits"
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.adjustCreditsLocked(id, delta); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// adjustCreditsLocked выполняет проверку и изменение баланса под уже взятым
// мьютексом — общая часть AdjustCredits, PurchaseProduct и SettleOrder.
func (s *Storage) adjustCreditsLocked(id int64, delta int64) error {
	u, ok := s.users[id]
	if !ok {
		return storage.ErrUserNotFound
	}
	if u.Credits+delta < 0 {
		return storage.ErrInsufficientCredits
	}
	u.Credits += delta
	u.UpdatedAt = time.Now()
	return nil
}

// UpdatePassword заменяет хэш пароля пользователя.
func (s *Storage) UpdatePassword(_ context.Context, username, passwordHash string) error {
	const op = "memory.UpdatePassword"
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			u.PasswordHash = passwordHash
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
}

// PushNotification добавляет уведомление в конец списка пользователя.
func (s *Storage) PushNotification(_ context.Context, id int64, text string) error {
	const op = "memory.PushNotification"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	u.Notifications = append(u.Notifications, text)
	u.UpdatedAt = time.Now()
	return nil
}

// ClearNotifications очищает список уведомлений пользователя.
func (s *Storage) ClearNotifications(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		u.Notifications = []string{}
		u.UpdatedAt = time.Now()
	}
	return nil
}

// NotifyAdmins добавляет уведомление всем администраторам.
func (s *Storage) NotifyAdmins(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.IsAdmin {
			u.Notifications = append(u.Notifications, text)
			u.UpdatedAt = time.Now()
		}
	}
	return nil
}

// BroadcastNotification добавляет уведомление всем пользователям либо
// только пользователям с перечисленными id.
func (s *Storage) BroadcastNotification(_ context.Context, text string, targetIDs []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	if len(targetIDs) == 0 {
		for _, u := range s.users {
			u.Notifications = append(u.Notifications, text)
			u.UpdatedAt = time.Now()
			count++
		}
		return count, nil
	}
	for _, id := range targetIDs {
		if u, ok := s.users[id]; ok {
			u.Notifications = append(u.Notifications, text)
			u.UpdatedAt = time.Now()
			count++
		}
	}
	return count, nil
}
