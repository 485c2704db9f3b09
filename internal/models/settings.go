package models

import "time"

// PaymentAccount описывает платёжный реквизит, отображаемый пользователям
// при ручной оплате. Редактируется только администратором (upsert по provider).
type PaymentAccount struct {
	Provider  string    `json:"provider"` // Ключ платёжной системы, например KPay или Wave Pay
	Name      string    `json:"name"`     // Отображаемое имя получателя
	Number    string    `json:"number"`   // Номер счета или телефона
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting — произвольная строковая настройка, редактируемая администратором
// (upsert по ключу), например ссылка на контакт администратора.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
