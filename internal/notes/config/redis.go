package config

import (
	"fmt"
	"time"

	"notekeeper/pkg/db/redis"
)

// RedisConfig представляет конфигурацию Redis для хранилища отозванных токенов.
type RedisConfig struct {
	Host           string        `yaml:"host" env:"NOTES_REDIS_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"NOTES_REDIS_PORT" env-default:"6379"`
	Password       string        `yaml:"password" env:"NOTES_REDIS_PASSWORD" env-default:""`
	DB             int           `yaml:"db" env:"NOTES_REDIS_DB" env-default:"0"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"NOTES_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"NOTES_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"NOTES_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize       int           `yaml:"pool_size" env:"NOTES_REDIS_POOL_SIZE" env-default:"10"`
	MinIdle        int           `yaml:"min_idle" env:"NOTES_REDIS_MIN_IDLE" env-default:"2"`
	KeyPrefix      string        `yaml:"key_prefix" env:"NOTES_REDIS_KEY_PREFIX" env-default:"notes:revoked:"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ClientConfig преобразует настройки в конфигурацию клиента Redis.
func (c *RedisConfig) ClientConfig() *redis.Config {
	return &redis.Config{
		Host:           c.Host,
		Port:           c.Port,
		Password:       c.Password,
		DB:             c.DB,
		PoolSize:       c.PoolSize,
		MinIdle:        c.MinIdle,
		ConnectTimeout: c.ConnectTimeout,
		ReadTimeout:    c.ReadTimeout,
		WriteTimeout:   c.WriteTimeout,
	}
}
