// Package cache содержит хранилище отозванных токенов в Redis.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notekeeper/internal/notes/ports/services"
	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodRevoke    = "revoke"
	LogMethodIsRevoked = "is_revoked"

	ErrorFailedToRevoke = "failed to store revoked token"
	ErrorFailedToCheck  = "failed to check revoked token"

	revokedMarker = "1"
)

// RevocationStore реализует services.RevocationStore поверх Redis.
// Ключ живет ровно до истечения срока токена.
type RevocationStore struct {
	client redis.Cmdable
	prefix string
}

// NewRevocationStore создает хранилище отозванных токенов.
func NewRevocationStore(client redis.Cmdable, prefix string) services.RevocationStore {
	return &RevocationStore{client: client, prefix: prefix}
}

func (s *RevocationStore) key(tokenID string) string {
	return s.prefix + tokenID
}

// Revoke помечает токен отозванным на ttl. Неположительный ttl ничего не делает.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, s.key(tokenID), revokedMarker, ttl).Err(); err != nil {
		logger.Log(ctx).With(zap.String("method", LogMethodRevoke)).Error(ctx, ErrorFailedToRevoke, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRevoke, err)
	}
	return nil
}

// IsRevoked сообщает, был ли токен отозван.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		logger.Log(ctx).With(zap.String("method", LogMethodIsRevoked)).Error(ctx, ErrorFailedToCheck, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToCheck, err)
	}
	return n > 0, nil
}
