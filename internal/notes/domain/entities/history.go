package entities

import "time"

// HistoryType тип записи в истории заметки.
type HistoryType string

// Типы изменений.
const (
	HistoryCreated HistoryType = "+"
	HistoryChanged HistoryType = "~"
	HistoryDeleted HistoryType = "-"
)

// NoteRevision снимок заметки на момент изменения.
type NoteRevision struct {
	HistoryID     int64
	NoteID        int64
	Title         string
	Content       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	IsFavorite    bool
	HistoryDate   time.Time
	ChangeReason  *string
	Type          HistoryType
	HistoryUserID *int64
}
