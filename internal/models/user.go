// Package models содержит доменные структуры магазина: пользователей,
// товары, заказы и платёжные реквизиты. Структуры используются
// в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя магазина.
type User struct {
	ID             int64     `json:"id"`       // Числовой идентификатор пользователя
	Username       string    `json:"username"` // Имя пользователя (уникальное, в нижнем регистре)
	PasswordHash   string    `json:"-"`        // Хэш пароля пользователя
	IsAdmin        bool      `json:"is_admin"`
	Credits        int64     `json:"credits"`         // Баланс кредитов, никогда не отрицательный
	SecurityAmount int64     `json:"security_amount"` // Страховая сумма, указанная при регистрации
	Banned         bool      `json:"banned"`
	Notifications  []string  `json:"notifications"` // Входящие уведомления пользователя
	OrdersCount    int64     `json:"orders_count,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PublicUser содержит поля пользователя, отдаваемые наружу в HTTP-ответах.
type PublicUser struct {
	ID            int64    `json:"id"`
	Username      string   `json:"username"`
	IsAdmin       bool     `json:"is_admin"`
	Credits       int64    `json:"credits"`
	Notifications []string `json:"notifications"`
}

// Public возвращает представление пользователя без чувствительных полей.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		IsAdmin:       u.IsAdmin,
		Credits:       u.Credits,
		Notifications: u.Notifications,
	}
}
