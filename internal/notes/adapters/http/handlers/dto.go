package handlers

import (
	"bytes"
	"encoding/json"
	"time"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/api"
)

// RegisterRequest данные для регистрации.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest данные для входа.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse публичные данные пользователя.
type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// AuthResponse ответ на регистрацию и вход.
type AuthResponse struct {
	Access    string       `json:"access"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func toAuthResponse(result api.AuthResult) AuthResponse {
	return AuthResponse{
		Access:    result.AccessToken,
		TokenType: "Bearer",
		ExpiresAt: result.ExpiresAt,
		User: UserResponse{
			ID:       result.User.ID,
			Email:    result.User.Email,
			Username: result.User.Username,
		},
	}
}

// LabelRequest тело запроса для категории или тега. Поле user игнорируется.
type LabelRequest struct {
	Name *string `json:"name"`
}

// LabelResponse представление категории или тега.
type LabelResponse struct {
	ID        int64     `json:"id"`
	User      int64     `json:"user"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryResponse преобразует категорию в ответ.
func CategoryResponse(c entities.Category) LabelResponse {
	return LabelResponse{ID: c.ID, User: c.UserID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// TagResponse преобразует тег в ответ.
func TagResponse(t entities.Tag) LabelResponse {
	return LabelResponse{ID: t.ID, User: t.UserID, Name: t.Name, CreatedAt: t.CreatedAt}
}

// NullableID ссылка, в которой отсутствие поля отличается от null.
type NullableID struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON вызывается только для присутствующего поля.
func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// NoteRequest тело запроса для заметки. Поля user, is_favorite и даты игнорируются.
type NoteRequest struct {
	Title        *string    `json:"title"`
	Content      *string    `json:"content"`
	Slug         *string    `json:"slug"`
	Category     NullableID `json:"category"`
	Tags         *[]int64   `json:"tags"`
	ChangeReason *string    `json:"change_reason"`
}

func (r NoteRequest) toInput() api.NoteInput {
	return api.NoteInput{
		Title:        r.Title,
		Content:      r.Content,
		Slug:         r.Slug,
		Category:     api.OptionalID{Set: r.Category.Set, Value: r.Category.Value},
		Tags:         r.Tags,
		ChangeReason: r.ChangeReason,
	}
}

// DeleteNoteRequest необязательное тело запроса на удаление.
type DeleteNoteRequest struct {
	ChangeReason *string `json:"change_reason"`
}

// NoteResponse представление заметки.
type NoteResponse struct {
	ID         int64     `json:"id"`
	User       int64     `json:"user"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Slug       string    `json:"slug"`
	Category   *int64    `json:"category"`
	Tags       []int64   `json:"tags"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toNoteResponse(n entities.Note) NoteResponse {
	tags := n.TagIDs
	if tags == nil {
		tags = []int64{}
	}
	return NoteResponse{
		ID:         n.ID,
		User:       n.UserID,
		Title:      n.Title,
		Content:    n.Content,
		Slug:       n.Slug,
		Category:   n.CategoryID,
		Tags:       tags,
		IsFavorite: n.IsFavorite,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

// ToggleFavoriteResponse ответ на переключение избранного.
type ToggleFavoriteResponse struct {
	Status     string `json:"status"`
	IsFavorite bool   `json:"is_favorite"`
}

// HistoryResponse запись истории заметки.
type HistoryResponse struct {
	HistoryID           int64     `json:"history_id"`
	Title               string    `json:"title"`
	Content             string    `json:"content"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	IsFavorite          bool      `json:"is_favorite"`
	HistoryDate         time.Time `json:"history_date"`
	HistoryChangeReason *string   `json:"history_change_reason"`
	HistoryType         string    `json:"history_type"`
	HistoryUserID       *int64    `json:"history_user_id"`
}

func toHistoryResponse(r entities.NoteRevision) HistoryResponse {
	return HistoryResponse{
		HistoryID:           r.HistoryID,
		Title:               r.Title,
		Content:             r.Content,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		IsFavorite:          r.IsFavorite,
		HistoryDate:         r.HistoryDate,
		HistoryChangeReason: r.ChangeReason,
		HistoryType:         string(r.Type),
		HistoryUserID:       r.HistoryUserID,
	}
}
