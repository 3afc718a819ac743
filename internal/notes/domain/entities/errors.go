package entities

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Общие ошибки домена.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("Authentication credentials were not provided.")
	ErrInvalidToken       = errors.New("Given token not valid for any token type")
	ErrInvalidCredentials = errors.New("No active account found with the given credentials")
	ErrEmailTaken         = errors.New("user with this email already exists")
)

// NotFoundError описывает отсутствующий в области видимости пользователя объект.
// errors.Is(err, ErrNotFound) истинно для любого NotFoundError.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string { return e.Detail }

// Is сопоставляет ошибку с ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Ошибки отсутствия ресурсов с сообщениями для клиента.
var (
	ErrResourceNotFound = &NotFoundError{Detail: "Not found."}
	ErrNoteNotFound     = &NotFoundError{Detail: "Note not found."}
	ErrHistoryNotFound  = &NotFoundError{Detail: "note not found for this user"}
)

// Сообщения об ошибках валидации полей.
const (
	MsgRequired      = "This field is required."
	MsgBlank         = "This field may not be blank."
	MsgNullChar      = "Null characters are not allowed."
	MsgInvalidText   = "Enter a valid UTF-8 string."
	MsgMaxLength     = "Ensure this field has no more than %d characters."
	MsgInvalidPK     = `Invalid pk "%d" - object does not exist.`
	MsgInvalidSlug   = "Enter a valid slug consisting of lowercase letters, numbers or hyphens."
	MsgSlugTaken     = "note with this slug already exists."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgEmailTaken    = "user with this email already exists."
	MsgPasswordShort = "This password is too short. It must contain at least 8 characters."
	MsgPasswordWeak  = "This password must contain at least one letter and one digit."
	MsgInvalidNumber = "A valid non-negative integer is required."
	MsgInvalidBody   = "Invalid JSON body."
	MsgRelatedGone   = "Referenced object does not exist."
)

// NonFieldErrors ключ для ошибок, не относящихся к конкретному полю.
const NonFieldErrors = "non_field_errors"

// ValidationError содержит ошибки валидации по полям.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError создает пустой набор ошибок валидации.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// FieldError создает ошибку валидации с одним сообщением.
func FieldError(field, message string) *ValidationError {
	v := NewValidationError()
	v.Add(field, message)
	return v
}

// Add добавляет сообщение к полю.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// Addf добавляет форматированное сообщение к полю.
func (e *ValidationError) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Empty сообщает, что ошибок нет.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Err возвращает nil, если ошибок нет.
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is сопоставляет ошибку с ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
