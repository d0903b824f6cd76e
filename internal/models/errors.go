package models

import (
	"errors"
	"fmt"
)

// Ошибки предметной области. Слои выше (сервисы, обработчики) сравнивают их через errors.Is.
var (
	// ErrInvalidCredentials неизвестный пользователь, неактивный пользователь или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingToken запрос без заголовка Authorization: Bearer.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken подпись не сходится, токен испорчен или истёк.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotFound документ с таким идентификатором не существует.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyConverted коммерческое предложение уже преобразовано в счёт.
	ErrAlreadyConverted = errors.New("quote already converted")
	// ErrAlreadyPaid счёт уже оплачен.
	ErrAlreadyPaid = errors.New("invoice already paid")
	// ErrValidation входные данные не прошли проверку.
	ErrValidation = errors.New("validation error")
	// ErrUnknownCustomer ссылка на несуществующего клиента.
	ErrUnknownCustomer = fmt.Errorf("%w: unknown customer", ErrValidation)
)

// Validationf оборачивает ErrValidation человеко‑читаемым сообщением.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
