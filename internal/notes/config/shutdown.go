package config

import (
	"time"
)

// DefaultShutdownTimeout используется, если таймаут не задан или не положителен.
const DefaultShutdownTimeout = 5 * time.Second

// ShutdownConfig содержит общий бюджет времени на остановку серверов и закрытие хранилищ.
type ShutdownConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"NOTES_GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// GetTimeout возвращает таймаут остановки.
func (s *ShutdownConfig) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultShutdownTimeout
	}
	return s.Timeout
}
