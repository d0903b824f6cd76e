// Package jwt реализует выпуск и проверку подписанных токенов сессии.
//
// Maker определяет интерфейс для создания и разбора токена с идентификатором
// и именем пользователя. MakerImpl реализует его на HS256 с секретным ключом и сроком жизни.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и разбора токенов сессии.
type Maker interface {
	// GenerateToken подписывает токен с идентификатором и именем пользователя.
	GenerateToken(userID int64, username string) (string, error)
	// ParseToken проверяет подпись и срок действия и возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey []byte        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	now       func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}
}
