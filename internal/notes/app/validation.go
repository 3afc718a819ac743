package app

import (
	"errors"
	"strings"
	"unicode/utf8"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/domain/query"
)

// parseQuery разбирает параметры списка и переводит ошибки в ошибки валидации.
func parseQuery(schema query.Schema, params map[string]string) (query.Query, error) {
	q, err := schema.Parse(params)
	if err != nil {
		var paramErr *query.ParamError
		if errors.As(err, &paramErr) {
			switch paramErr.Reason {
			case query.NullCharacter:
				return query.Query{}, entities.FieldError(paramErr.Param, entities.MsgNullChar)
			case query.InvalidText:
				return query.Query{}, entities.FieldError(paramErr.Param, entities.MsgInvalidText)
			default:
				return query.Query{}, entities.FieldError(paramErr.Param, entities.MsgInvalidNumber)
			}
		}
		return query.Query{}, err
	}
	return q, nil
}

// checkText проверяет обязательное текстовое поле и возвращает значение без пробелов по краям.
func checkText(v *entities.ValidationError, field string, value *string, required bool, maxLength int) (string, bool) {
	if value == nil {
		if required {
			v.Add(field, entities.MsgRequired)
		}
		return "", false
	}
	if !storable(v, field, *value) {
		return "", false
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		v.Add(field, entities.MsgBlank)
		return "", false
	}
	if maxLength > 0 && utf8.RuneCountInString(trimmed) > maxLength {
		v.Addf(field, entities.MsgMaxLength, maxLength)
		return "", false
	}
	return trimmed, true
}

// checkOptionalText проверяет необязательное поле, пустое значение допускается.
func checkOptionalText(v *entities.ValidationError, field string, value *string, maxLength int) *string {
	if value == nil || !storable(v, field, *value) {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if maxLength > 0 && utf8.RuneCountInString(trimmed) > maxLength {
		v.Addf(field, entities.MsgMaxLength, maxLength)
		return nil
	}
	return &trimmed
}

// storable отклоняет строки, которые PostgreSQL не примет в текстовую колонку.
func storable(v *entities.ValidationError, field, value string) bool {
	switch {
	case strings.ContainsRune(value, 0):
		v.Add(field, entities.MsgNullChar)
		return false
	case !utf8.ValidString(value):
		v.Add(field, entities.MsgInvalidText)
		return false
	}
	return true
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// firstMissing возвращает первый id из wanted, отсутствующий в owned.
func firstMissing(wanted, owned []int64) (int64, bool) {
	set := make(map[int64]struct{}, len(owned))
	for _, id := range owned {
		set[id] = struct{}{}
	}
	for _, id := range wanted {
		if _, ok := set[id]; !ok {
			return id, true
		}
	}
	return 0, false
}
