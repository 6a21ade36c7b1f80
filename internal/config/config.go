package config

import (
	"os"
	"time"
)

const (
	// WebSocket
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 4096

	// Relay
	RoomSeparator  = "_"
	SendBufferSize = 256

	// Typing indicator expiry — клієнтський таймаут, релей його не контролює.
	// Тримаємо тут, щоб фронтенд і бекенд узгоджували одне значення.
	TypingIndicatorTTL = 2 * time.Second
)

// GetEnv повертає значення змінної оточення або fallback, якщо вона порожня.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
