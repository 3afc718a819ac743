// Package app реализует бизнес-логику сервиса заметок.
package app

import (
	"strconv"

	"notekeeper/internal/notes/domain/entities"
)

// Lookup преобразует идентификатор из URL в ключ поиска.
// false означает, что идентификатор не может указывать ни на один объект.
type Lookup func(identifier string) (entities.Key, bool)

// ByID принимает только десятичные числа. Значения вне диапазона int64 не находятся.
func ByID(identifier string) (entities.Key, bool) {
	if !isDigits(identifier) {
		return entities.Key{}, false
	}
	id, err := strconv.ParseInt(identifier, 10, 64)
	if err != nil {
		return entities.Key{}, false
	}
	return entities.Key{ID: id}, true
}

// ByIDOrSlug трактует строку из цифр как id, остальное как slug.
// Slug, состоящий только из цифр, поэтому недостижим по slug.
func ByIDOrSlug(identifier string) (entities.Key, bool) {
	if identifier == "" {
		return entities.Key{}, false
	}
	if isDigits(identifier) {
		return ByID(identifier)
	}
	return entities.Key{Slug: identifier}, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
