package models

import "time"

// Типы заказов. CREDIT — заявка на пополнение кредитов за валюту,
// PRODUCT — покупка товара за кредиты.
const (
	OrderTypeCredit  = "CREDIT"
	OrderTypeProduct = "PRODUCT"
)

// Статусы заказа. Переходы монотонны: заказ, покинувший PENDING,
// больше не меняет статус.
const (
	OrderStatusPending  = "PENDING"
	OrderStatusApproved = "APPROVED"
	OrderStatusRejected = "REJECTED"
)

// Order представляет запись в журнале заказов: либо заявку на пополнение
// кредитов (CREDIT), либо покупку товара (PRODUCT). Заказ принадлежит
// ровно одному пользователю.
type Order struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"reference"` // Внешний идентификатор заказа для квитанций и уведомлений
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username,omitempty"` // Заполняется в админских выборках
	Type       string    `json:"type"`
	Amount     int64     `json:"amount"`                // Для CREDIT — сумма в MMK, для PRODUCT — цена в кредитах
	ProofImage string    `json:"proof_image,omitempty"` // Ссылка на подтверждение оплаты, только для CREDIT
	ProductID  *int64    `json:"product_id,omitempty"`  // Ссылка на товар, только для PRODUCT
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidOrderStatus сообщает, является ли строка известным статусом заказа.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusApproved, OrderStatusRejected:
		return true
	}
	return false
}
