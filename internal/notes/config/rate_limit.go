package config

import "time"

// RateLimitConfig ограничивает частоту запросов одного пользователя.
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled" env:"NOTES_RATE_LIMIT_ENABLED" env-default:"true"`
	RequestsPerSecond float64       `yaml:"rps" env:"NOTES_RATE_LIMIT_RPS" env-default:"10"`
	Burst             int           `yaml:"burst" env:"NOTES_RATE_LIMIT_BURST" env-default:"30"`
	IdleTTL           time.Duration `yaml:"idle_ttl" env:"NOTES_RATE_LIMIT_IDLE_TTL" env-default:"10m"`
}
