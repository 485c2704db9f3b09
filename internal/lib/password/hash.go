// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// Пароли никогда не хранятся в открытом виде: GetHash создает bcrypt-хеш
// с фиксированной стоимостью, CompareHash пересчитывает и сравнивает.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost — фиксированный фактор стоимости bcrypt.
const hashCost = 12

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
