package postgres

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/atompoint/internal/models"
)

// UpsertPaymentAccount создает или обновляет платёжный реквизит по ключу provider.
func (s *Storage) UpsertPaymentAccount(ctx context.Context, account *models.PaymentAccount) (*models.PaymentAccount, error) {
	const op = "postgres.UpsertPaymentAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payment_accounts (provider, name, number, active)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (provider) DO UPDATE
			  SET name = EXCLUDED.name, number = EXCLUDED.number,
			      active = EXCLUDED.active, updated_at = NOW()
			  RETURNING provider, name, number, active, updated_at`
	result := &models.PaymentAccount{}
	err := s.DB.QueryRowContext(ctx, query,
		account.Provider, account.Name, account.Number, account.Active).Scan(
		&result.Provider, &result.Name, &result.Number, &result.Active, &result.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPaymentAccounts возвращает платёжные реквизиты, при onlyActive — только активные.
func (s *Storage) ListPaymentAccounts(ctx context.Context, onlyActive bool) ([]*models.PaymentAccount, error) {
	const op = "postgres.ListPaymentAccounts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT provider, name, number, active, updated_at FROM payment_accounts`
	if onlyActive {
		query += ` WHERE active = TRUE`
	}
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PaymentAccount
	for rows.Next() {
		pa := &models.PaymentAccount{}
		if err = rows.Scan(&pa.Provider, &pa.Name, &pa.Number, &pa.Active, &pa.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, pa)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertSetting создает или обновляет настройку по ключу.
func (s *Storage) UpsertSetting(ctx context.Context, key, value string) (*models.Setting, error) {
	const op = "postgres.UpsertSetting"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO settings (key, value)
			  VALUES ($1, $2)
			  ON CONFLICT (key) DO UPDATE
			  SET value = EXCLUDED.value, updated_at = NOW()
			  RETURNING key, value, updated_at`
	result := &models.Setting{}
	err := s.DB.QueryRowContext(ctx, query, key, value).Scan(
		&result.Key, &result.Value, &result.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSettings возвращает все настройки.
func (s *Storage) ListSettings(ctx context.Context) ([]*models.Setting, error) {
	const op = "postgres.ListSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT key, value, updated_at FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Setting
	for rows.Next() {
		st := &models.Setting{}
		if err = rows.Scan(&st.Key, &st.Value, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
