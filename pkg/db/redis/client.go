// Package redis предоставляет общую реализацию клиента Redis.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

// Константы для сообщений.
const (
	LogConnecting = "connecting to redis"
	LogConnected  = "redis connection established"
	LogClosing    = "closing redis connection"

	ErrConnect = "failed to connect to redis"
	ErrClose   = "failed to close redis connection"
)

// Client обертывает клиент Redis.
type Client struct {
	client *redis.Client
}

// NewClient создает клиент Redis и проверяет соединение.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	settings := cfg.withDefaults()
	log := logger.Log(ctx)

	log.Info(ctx, LogConnecting,
		zap.String("address", settings.Address()),
		zap.Int("db", settings.DB),
		zap.Int("pool_size", settings.PoolSize))

	rdb := redis.NewClient(&redis.Options{
		Addr:         settings.Address(),
		Password:     settings.Password,
		DB:           settings.DB,
		PoolSize:     settings.PoolSize,
		MinIdleConns: settings.MinIdle,
		DialTimeout:  settings.ConnectTimeout,
		ReadTimeout:  settings.ReadTimeout,
		WriteTimeout: settings.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, settings.ConnectTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", ErrConnect, err)
	}

	log.Info(ctx, LogConnected)

	return &Client{client: rdb}, nil
}

// Close закрывает соединение с Redis.
func (c *Client) Close(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, LogClosing)
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrClose, err)
	}
	return nil
}

// RawClient возвращает базовый Redis клиент для адаптеров.
func (c *Client) RawClient() *redis.Client {
	return c.client
}
