// Package storage определяет общие ошибки слоя хранения. Оба бэкенда —
// PostgreSQL и резервное хранилище в памяти — возвращают одни и те же
// сентинельные ошибки, чтобы бизнес-логика не зависела от выбранного бэкенда.
package storage

import "errors"

var (
	// ErrUserNotFound — пользователь с данным id или username не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken — имя пользователя уже занято (без учета регистра).
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInsufficientCredits — операция уменьшила бы баланс ниже нуля.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrProductNotFound — товар с данным id не существует.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound — заказ с данным id не существует.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNotPending — заказ уже покинул статус PENDING, переход запрещен.
	ErrOrderNotPending = errors.New("order is not pending")
)
