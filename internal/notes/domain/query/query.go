// Package query описывает параметры выборки списков: фильтры, поиск, сортировку и пагинацию.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Имена служебных параметров запроса.
const (
	ParamSearch   = "search"
	ParamOrdering = "ordering"
	ParamLimit    = "limit"
	ParamOffset   = "offset"
)

// ErrInvalidParam ошибка разбора параметра запроса.
var ErrInvalidParam = errors.New("invalid query parameter")

// ParamReason причина отклонения параметра.
type ParamReason int

// Причины отклонения параметра.
const (
	// NotANumber значение не является неотрицательным целым.
	NotANumber ParamReason = iota
	// NullCharacter значение содержит символ NUL.
	NullCharacter
	// InvalidText значение не является корректной строкой UTF-8.
	InvalidText
)

// ParamError описывает некорректный параметр.
type ParamError struct {
	Param  string
	Value  string
	Reason ParamReason
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s=%q", ErrInvalidParam, e.Param, e.Value)
}

// Unwrap возвращает ErrInvalidParam.
func (e *ParamError) Unwrap() error { return ErrInvalidParam }

// FilterKind определяет способ разбора значения фильтра.
type FilterKind int

// Виды фильтров.
const (
	// Exact точное совпадение строки.
	Exact FilterKind = iota
	// Boolean значения true/false без учета регистра, прочие значения игнорируются.
	Boolean
)

// Filter описывает допустимый фильтр.
type Filter struct {
	Name string
	Kind FilterKind
}

// Schema перечисляет фильтры, поля поиска и сортировки ресурса.
type Schema struct {
	Filters         []Filter
	Searchable      bool
	Ordering        []string
	DefaultOrdering []Order
}

// Condition примененный фильтр. Value имеет тип string для Exact и bool для Boolean.
type Condition struct {
	Field string
	Value any
}

// Order элемент сортировки.
type Order struct {
	Field string
	Desc  bool
}

// String возвращает представление в формате параметра ordering.
func (o Order) String() string {
	if o.Desc {
		return "-" + o.Field
	}
	return o.Field
}

// Query разобранные параметры выборки.
type Query struct {
	Conditions []Condition
	Search     []string
	Ordering   []Order
	Limit      *int
	Offset     *int
}

// Parse разбирает параметры запроса по схеме. Неизвестные параметры игнорируются.
func (s Schema) Parse(params map[string]string) (Query, error) {
	var q Query

	for _, f := range s.Filters {
		raw, ok := params[f.Name]
		if !ok || raw == "" {
			continue
		}
		switch f.Kind {
		case Boolean:
			switch strings.ToLower(raw) {
			case "true":
				q.Conditions = append(q.Conditions, Condition{Field: f.Name, Value: true})
			case "false":
				q.Conditions = append(q.Conditions, Condition{Field: f.Name, Value: false})
			}
		default:
			if reason, bad := checkText(raw); bad {
				return Query{}, &ParamError{Param: f.Name, Value: raw, Reason: reason}
			}
			q.Conditions = append(q.Conditions, Condition{Field: f.Name, Value: raw})
		}
	}

	if s.Searchable {
		q.Search = SearchTerms(params[ParamSearch])
	}

	q.Ordering = s.ordering(params[ParamOrdering])

	var err error
	if q.Limit, err = nonNegative(params, ParamLimit); err != nil {
		return Query{}, err
	}
	if q.Offset, err = nonNegative(params, ParamOffset); err != nil {
		return Query{}, err
	}

	return q, nil
}

// SearchTerms разбивает строку поиска на термы. Запятые и пробелы разделяют термы,
// NUL и некорректные байты UTF-8 отбрасываются. Без термов возвращает nil.
func SearchTerms(raw string) []string {
	raw = strings.ToValidUTF8(strings.ReplaceAll(raw, "\x00", ""), "")
	terms := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(terms) == 0 {
		return nil
	}
	return terms
}

// checkText сообщает, можно ли передать значение в базу данных как текст.
func checkText(raw string) (ParamReason, bool) {
	switch {
	case strings.ContainsRune(raw, 0):
		return NullCharacter, true
	case !utf8.ValidString(raw):
		return InvalidText, true
	}
	return 0, false
}

func (s Schema) ordering(raw string) []Order {
	var out []Order
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		o := Order{Field: strings.TrimPrefix(part, "-"), Desc: strings.HasPrefix(part, "-")}
		if s.allowsOrdering(o.Field) {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		out = append(out, s.DefaultOrdering...)
	}
	return out
}

func (s Schema) allowsOrdering(field string) bool {
	for _, f := range s.Ordering {
		if f == field {
			return true
		}
	}
	return false
}

func nonNegative(params map[string]string, name string) (*int, error) {
	raw, ok := params[name]
	if !ok || raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, &ParamError{Param: name, Value: raw}
	}
	return &n, nil
}
