package entities

import "time"

// User владелец категорий, тегов и заметок.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenClaims данные, извлеченные из access токена.
type TokenClaims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}
