package config

import "time"

// JWTConfig содержит настройки для JWT токенов и хеширования паролей.
type JWTConfig struct {
	SecretKey      string `yaml:"secret_key" env:"NOTES_JWT_SECRET_KEY" env-default:"change-me-in-production-5PqzL1xA8tYw"`
	AccessTokenTTL string `yaml:"access_token_ttl" env:"NOTES_JWT_ACCESS_TOKEN_TTL" env-default:"1h"`
	Issuer         string `yaml:"issuer" env:"NOTES_JWT_ISSUER" env-default:"notekeeper"`
	BCryptCost     int    `yaml:"bcrypt_cost" env:"NOTES_BCRYPT_COST" env-default:"10"`
}

// GetAccessTokenTTL возвращает продолжительность времени жизни access токена.
func (c *JWTConfig) GetAccessTokenTTL() time.Duration {
	duration, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || duration <= 0 {
		return time.Hour
	}
	return duration
}
