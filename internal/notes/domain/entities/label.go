// Package entities определяет доменные сущности сервиса заметок.
package entities

import "time"

// Category представляет категорию заметок пользователя.
type Category struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}

// Tag представляет тег пользователя.
type Tag struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}

// Максимальная длина имен.
const (
	CategoryNameMaxLength = 100
	TagNameMaxLength      = 50
)
