// Package api определяет интерфейсы сценариев использования сервиса заметок.
package api

import (
	"context"
	"time"

	"notekeeper/internal/notes/domain/entities"
)

// LabelInput данные для создания или изменения категории либо тега.
type LabelInput struct {
	Name *string
}

// OptionalID поле-ссылка, различающее отсутствие значения и явный null.
type OptionalID struct {
	Set   bool
	Value *int64
}

// NoteInput данные для создания или изменения заметки. nil означает отсутствие поля.
type NoteInput struct {
	Title        *string
	Content      *string
	Slug         *string
	Category     OptionalID
	Tags         *[]int64
	ChangeReason *string
}

// LabelService сценарии работы с категориями или тегами.
type LabelService[T any] interface {
	List(ctx context.Context, userID int64, params map[string]string) ([]T, error)
	Create(ctx context.Context, userID int64, input LabelInput) (T, error)
	Get(ctx context.Context, userID int64, identifier string) (T, error)
	Update(ctx context.Context, userID int64, identifier string, input LabelInput, partial bool) (T, error)
	Delete(ctx context.Context, userID int64, identifier string) error
}

// NoteService сценарии работы с заметками.
type NoteService interface {
	List(ctx context.Context, userID int64, params map[string]string) ([]entities.Note, error)
	Create(ctx context.Context, userID int64, input NoteInput) (entities.Note, error)
	Get(ctx context.Context, userID int64, identifier string) (entities.Note, error)
	Update(ctx context.Context, userID int64, identifier string, input NoteInput, partial bool) (entities.Note, error)
	Delete(ctx context.Context, userID int64, identifier string, reason *string) error
	ToggleFavorite(ctx context.Context, userID int64, identifier string) (bool, error)
	ListHistory(ctx context.Context, userID int64, noteID string) ([]entities.NoteRevision, error)
}

// AuthResult результат успешной регистрации или входа.
type AuthResult struct {
	User        entities.User
	AccessToken string
	ExpiresAt   time.Time
}

// AuthService сценарии работы с учетными записями.
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Logout(ctx context.Context, claims entities.TokenClaims) error
	Authenticate(ctx context.Context, token string) (entities.TokenClaims, error)
}
