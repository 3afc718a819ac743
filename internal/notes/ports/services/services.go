// Package services определяет интерфейсы внешних сервисов для сервиса заметок.
package services

import (
	"context"
	"errors"
	"time"

	"notekeeper/internal/notes/domain/entities"
)

// Ошибки токенов.
var (
	ErrInvalidJWTToken    = errors.New("invalid JWT token")
	ErrExpiredJWTToken    = errors.New("JWT token has expired")
	ErrGeneratingJWTToken = errors.New("failed to generate JWT token")
)

// TokenService выпускает и проверяет access токены.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID int64) (string, entities.TokenClaims, error)
	ValidateAccessToken(ctx context.Context, token string) (entities.TokenClaims, error)
}

// PasswordService хеширует и проверяет пароли.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
}

// RevocationStore хранит идентификаторы отозванных токенов до истечения их срока.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
