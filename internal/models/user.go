// Package models содержит доменные структуры back office: пользователей, клиентов,
// коммерческие предложения, счета, события календаря и вспомогательные типы
// для приёма данных из JSON-запросов.
package models

import "time"

// User представляет учётную запись сотрудника. Создаётся миграцией, ядро её не изменяет.
type User struct {
	ID           int64
	Username     string
	Email        string
	Name         string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// UserSummary публичная часть пользователя, отдаётся клиенту после входа. Хэша пароля здесь нет.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"nombre"`
}

// Summary возвращает публичное представление пользователя.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
	}
}

// Identity личность, извлечённая из токена сессии и доступная обработчикам через контекст.
type Identity struct {
	UserID   int64
	Username string
}
