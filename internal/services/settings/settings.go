// Package settings реализует публичные настройки магазина
// и управление платёжными реквизитами.
package settings

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/atompoint/internal/models"
)

// DefaultAdminContact используется, пока администратор не задал свой контакт.
const DefaultAdminContact = "https://t.me/CEO_METAVERSE"

// AdminContactKey ключ настройки с контактом администратора.
const AdminContactKey = "adminContact"

// Repository описывает операции хранилища над настройками и реквизитами.
type Repository interface {
	UpsertPaymentAccount(ctx context.Context, account *models.PaymentAccount) (*models.PaymentAccount, error)
	ListPaymentAccounts(ctx context.Context, onlyActive bool) ([]*models.PaymentAccount, error)
	UpsertSetting(ctx context.Context, key, value string) (*models.Setting, error)
	ListSettings(ctx context.Context) ([]*models.Setting, error)
}

// PublicSettings набор настроек, отдаваемый без аутентификации:
// контакт администратора и активные платёжные реквизиты.
type PublicSettings struct {
	AdminContact    string                   `json:"admin_contact"`
	PaymentAccounts []*models.PaymentAccount `json:"payment_accounts"`
}

// Service управляет настройками магазина.
type Service struct {
	repo Repository
}

// New создает новый экземпляр Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Public возвращает публичные настройки магазина.
func (s *Service) Public(ctx context.Context) (*PublicSettings, error) {
	const op = "services.settings.Public"

	result := &PublicSettings{AdminContact: DefaultAdminContact}

	all, err := s.repo.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, setting := range all {
		if setting.Key == AdminContactKey && setting.Value != "" {
			result.AdminContact = setting.Value
		}
	}

	accounts, err := s.repo.ListPaymentAccounts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result.PaymentAccounts = accounts

	return result, nil
}

// UpsertPaymentAccount создаёт или обновляет платёжные реквизиты провайдера.
func (s *Service) UpsertPaymentAccount(ctx context.Context, account *models.PaymentAccount) (*models.PaymentAccount, error) {
	const op = "services.settings.UpsertPaymentAccount"

	saved, err := s.repo.UpsertPaymentAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// UpsertSetting создаёт или обновляет настройку по ключу.
func (s *Service) UpsertSetting(ctx context.Context, key, value string) (*models.Setting, error) {
	const op = "services.settings.UpsertSetting"

	saved, err := s.repo.UpsertSetting(ctx, key, value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}
