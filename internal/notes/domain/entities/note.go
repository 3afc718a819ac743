package entities

import (
	"regexp"
	"time"
)

// Ограничения полей заметки.
const (
	NoteTitleMaxLength    = 200
	NoteSlugMaxLength     = 255
	ChangeReasonMaxLength = 100
)

// SlugPattern описывает допустимый slug заметки.
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Note представляет заметку пользователя.
type Note struct {
	ID         int64
	UserID     int64
	Title      string
	Content    string
	Slug       string
	CategoryID *int64
	TagIDs     []int64
	IsFavorite bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Key идентифицирует заметку по числовому id либо по slug.
type Key struct {
	ID   int64
	Slug string
}

// IsSlug сообщает, что ключ задан через slug.
func (k Key) IsSlug() bool {
	return k.Slug != ""
}
