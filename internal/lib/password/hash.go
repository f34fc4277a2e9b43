// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// GetHash создает bcrypt-хеш пароля для безопасного хранения.
// CompareHash сравнивает исходный bcrypt-хеш с введённым паролем, проверяя их соответствие.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/product-catalog/internal/models"
)

// Cost — фиксированная стоимость bcrypt.
const Cost = 10

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
//
// Соль генерируется на каждый вызов, поэтому хэши одного пароля различаются.
// Пароль длиннее 72 байт отклоняется с models.ErrInvalidArgument.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%s: %w: %w", op, models.ErrInvalidArgument, err)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Hasher — реализация хешера для сервисов поверх функций пакета.
type Hasher struct{}

// Hash возвращает bcrypt-хэш пароля.
func (Hasher) Hash(plain string) (string, error) {
	return GetHash(plain)
}

// Verify сообщает, соответствует ли пароль хэшу. Несовпадение не является ошибкой.
func (Hasher) Verify(plain, hash string) bool {
	return CompareHash(hash, plain) == nil
}
