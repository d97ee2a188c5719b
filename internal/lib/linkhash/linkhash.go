// Package linkhash генерирует публичные идентификаторы отслеживаемых ссылок.
package linkhash

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ByteLength количество случайных байт в хеше ссылки
const ByteLength = 16

// Length длина хеша в символах
const Length = ByteLength * 2

// New возвращает криптографически случайный hex-токен длиной Length
func New() (string, error) {
	buf := make([]byte, ByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
