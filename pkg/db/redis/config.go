package redis

import (
	"fmt"
	"time"
)

// Значения по умолчанию для Redis.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 6379
	DefaultPoolSize = 10
	DefaultTimeout  = 3 * time.Second
)

// Config содержит настройки подключения к Redis.
type Config struct {
	Host           string
	Port           int
	Password       string
	DB             int
	PoolSize       int
	MinIdle        int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Address возвращает адрес Redis в формате host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Host == "" {
		out.Host = DefaultHost
	}
	if out.Port == 0 {
		out.Port = DefaultPort
	}
	if out.PoolSize <= 0 {
		out.PoolSize = DefaultPoolSize
	}
	if out.ConnectTimeout <= 0 {
		out.ConnectTimeout = DefaultTimeout
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = DefaultTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = DefaultTimeout
	}
	return out
}
