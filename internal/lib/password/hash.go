// Package password реализует хэширование паролей bcrypt и их сравнение.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch пароль не соответствует хэшу.
var ErrMismatch = errors.New("password mismatch")

// dummyHash сравнивается, когда пользователь не найден, чтобы время ответа
// не выдавало существование имени пользователя.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("allways-dummy-password"), bcrypt.DefaultCost)

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil при совпадении, ErrMismatch при несовпадении
// и обёрнутую ошибку bcrypt, если хэш повреждён.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// CompareDummy выполняет сравнение с фиктивным хэшем и всегда возвращает ErrMismatch.
func CompareDummy(externalPassword string) error {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(externalPassword))
	return ErrMismatch
}
