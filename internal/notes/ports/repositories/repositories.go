// Package repositories определяет интерфейсы хранилищ сервиса заметок.
package repositories

import (
	"context"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/domain/query"
)

// LabelRepository хранилище категорий или тегов. Все операции ограничены владельцем.
type LabelRepository[T any] interface {
	List(ctx context.Context, userID int64, q query.Query) ([]T, error)
	Get(ctx context.Context, userID, id int64) (T, error)
	Create(ctx context.Context, userID int64, name string) (T, error)
	Update(ctx context.Context, userID, id int64, name string) (T, error)
	Delete(ctx context.Context, userID, id int64) error
	// OwnedIDs возвращает подмножество ids, принадлежащих пользователю.
	OwnedIDs(ctx context.Context, userID int64, ids []int64) ([]int64, error)
}

// CategoryRepository хранилище категорий.
type CategoryRepository = LabelRepository[entities.Category]

// TagRepository хранилище тегов.
type TagRepository = LabelRepository[entities.Tag]

// NoteRepository хранилище заметок. Каждая запись сопровождается записью в истории
// в той же транзакции.
type NoteRepository interface {
	List(ctx context.Context, userID int64, q query.Query) ([]entities.Note, error)
	GetByID(ctx context.Context, userID, id int64) (entities.Note, error)
	GetBySlug(ctx context.Context, userID int64, slug string) (entities.Note, error)
	SlugExists(ctx context.Context, userID int64, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, note entities.Note, reason *string) (entities.Note, error)
	Update(ctx context.Context, note entities.Note, reason *string) (entities.Note, error)
	Delete(ctx context.Context, userID, id int64, reason *string) error
	ToggleFavorite(ctx context.Context, userID, id int64) (bool, error)
	History(ctx context.Context, userID, noteID int64) ([]entities.NoteRevision, error)
}

// UserRepository хранилище учетных записей.
type UserRepository interface {
	Create(ctx context.Context, user entities.User) (entities.User, error)
	FindByEmail(ctx context.Context, email string) (entities.User, error)
}
