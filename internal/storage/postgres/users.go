package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

// Уведомления хранятся в колонке JSONB как массив строк.
func scanNotifications(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var notifications []string
	if err := json.Unmarshal(raw, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

const userColumns = `id, username, password_hash, is_admin, credits, security_amount,
			      banned, notifications, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var rawNotifications []byte
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.Credits,
		&u.SecurityAmount, &u.Banned, &rawNotifications, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	notifications, err := scanNotifications(rawNotifications)
	if err != nil {
		return nil, err
	}
	u.Notifications = notifications
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает созданную запись.
// Уникальность username проверяется базой, конфликт превращается в ErrUsernameTaken.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "postgres.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rawNotifications, err := json.Marshal(user.Notifications)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO users (username, password_hash, is_admin, security_amount, notifications)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (username) DO NOTHING
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.IsAdmin, user.SecurityAmount, rawNotifications)

	created, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "postgres.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по его id.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "postgres.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей с количеством их заказов,
// отсортированных по дате регистрации по убыванию.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "postgres.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.id, u.username, u.password_hash, u.is_admin, u.credits, u.security_amount,
			      u.banned, u.notifications, u.created_at, u.updated_at, COUNT(o.id)
			  FROM users u
			  LEFT JOIN orders o ON o.user_id = u.id
			  GROUP BY u.id
			  ORDER BY u.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		var rawNotifications []byte
		if err = rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.Credits,
			&u.SecurityAmount, &u.Banned, &rawNotifications, &u.CreatedAt, &u.UpdatedAt,
			&u.OrdersCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if u.Notifications, err = scanNotifications(rawNotifications); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetBanned выставляет флаг блокировки пользователя.
func (s *Storage) SetBanned(ctx context.Context, id int64, banned bool) (*models.User, error) {
	const op = "postgres.SetBanned"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET banned = $2, updated_at = NOW() WHERE id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id, banned))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// AdjustCredits изменяет баланс пользователя на delta. Условие в запросе
// гарантирует, что баланс не станет отрицательным даже при конкурентных вызовах.
func (s *Storage) AdjustCredits(ctx context.Context, id int64, delta int64) error {
	const op = "postgres.AdjustCredits"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET credits = credits + $2, updated_at = NOW()
			  WHERE id = $1 AND credits + $2 >= 0`
	res, err := s.DB.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		if _, err = s.GetUserByID(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, storage.ErrInsufficientCredits)
	}
	return nil
}

// UpdatePassword заменяет хэш пароля пользователя.
func (s *Storage) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	const op = "postgres.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE username = $1`
	res, err := s.DB.ExecContext(ctx, query, username, passwordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return nil
}

// PushNotification добавляет уведомление в конец списка уведомлений пользователя.
func (s *Storage) PushNotification(ctx context.Context, id int64, text string) error {
	const op = "postgres.PushNotification"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET notifications = notifications || to_jsonb($2::text),
			      updated_at = NOW()
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id, text)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return nil
}

// ClearNotifications очищает список уведомлений пользователя.
func (s *Storage) ClearNotifications(ctx context.Context, id int64) error {
	const op = "postgres.ClearNotifications"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET notifications = '[]'::jsonb, updated_at = NOW() WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NotifyAdmins добавляет уведомление всем администраторам.
func (s *Storage) NotifyAdmins(ctx context.Context, text string) error {
	const op = "postgres.NotifyAdmins"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET notifications = notifications || to_jsonb($1::text),
			      updated_at = NOW()
			  WHERE is_admin = TRUE`
	if _, err := s.DB.ExecContext(ctx, query, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// BroadcastNotification добавляет уведомление всем пользователям либо только
// пользователям с перечисленными id. Возвращает число затронутых записей.
func (s *Storage) BroadcastNotification(ctx context.Context, text string, targetIDs []int64) (int64, error) {
	const op = "postgres.BroadcastNotification"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if len(targetIDs) == 0 {
		query := `UPDATE users SET notifications = notifications || to_jsonb($1::text),
				      updated_at = NOW()`
		res, err := s.DB.ExecContext(ctx, query, text)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		count, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		return count, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var count int64
	query := `UPDATE users SET notifications = notifications || to_jsonb($2::text),
			      updated_at = NOW()
			  WHERE id = $1`
	for _, id := range targetIDs {
		res, err := tx.ExecContext(ctx, query, id, text)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		count += affected
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
