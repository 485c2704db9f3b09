package memory

import (
	"context"
	"sort"
	"time"

	"github.com/magabrotheeeer/atompoint/internal/models"
)

// UpsertPaymentAccount создает или обновляет платёжный реквизит по ключу provider.
func (s *Storage) UpsertPaymentAccount(_ context.Context, account *models.PaymentAccount) (*models.PaymentAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *account
	stored.UpdatedAt = time.Now()
	s.accounts[stored.Provider] = &stored
	saved := stored
	return &saved, nil
}

// ListPaymentAccounts возвращает платёжные реквизиты, при onlyActive — только активные.
func (s *Storage) ListPaymentAccounts(_ context.Context, onlyActive bool) ([]*models.PaymentAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.PaymentAccount
	for _, pa := range s.accounts {
		if onlyActive && !pa.Active {
			continue
		}
		account := *pa
		result = append(result, &account)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Provider < result[j].Provider
	})
	return result, nil
}

// UpsertSetting создает или обновляет настройку по ключу.
func (s *Storage) UpsertSetting(_ context.Context, key, value string) (*models.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	stored := setting
	s.settings[key] = &stored
	saved := setting
	return &saved, nil
}

// ListSettings возвращает все настройки.
func (s *Storage) ListSettings(_ context.Context) ([]*models.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Setting
	for _, st := range s.settings {
		setting := *st
		result = append(result, &setting)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result, nil
}
