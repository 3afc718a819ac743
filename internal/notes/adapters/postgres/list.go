package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"notekeeper/internal/notes/domain/query"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// listSpec сопоставляет именам из query.Schema фрагменты SQL.
// selectSQL должен заканчиваться условием на владельца с параметром $1.
type listSpec struct {
	selectSQL string
	filters   map[string]string
	search    []string
	ordering  map[string]string
	tieBreak  string
}

// build собирает запрос списка и его аргументы.
func (s listSpec) build(userID int64, q query.Query) (string, []any) {
	args := []any{userID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	var b strings.Builder
	b.WriteString(s.selectSQL)

	for _, c := range q.Conditions {
		predicate, ok := s.filters[c.Field]
		if !ok {
			continue
		}
		b.WriteString(" AND ")
		b.WriteString(fmt.Sprintf(predicate, next(c.Value)))
	}

	if len(s.search) > 0 {
		for _, term := range q.Search {
			placeholder := next("%" + likeEscaper.Replace(term) + "%")
			parts := make([]string, 0, len(s.search))
			for _, column := range s.search {
				parts = append(parts, column+" ILIKE "+placeholder)
			}
			b.WriteString(" AND (" + strings.Join(parts, " OR ") + ")")
		}
	}

	order := make([]string, 0, len(q.Ordering)+1)
	hasTieBreak := false
	for _, o := range q.Ordering {
		column, ok := s.ordering[o.Field]
		if !ok {
			continue
		}
		if column == s.tieBreak {
			hasTieBreak = true
		}
		if o.Desc {
			order = append(order, column+" DESC")
		} else {
			order = append(order, column+" ASC")
		}
	}
	if !hasTieBreak {
		order = append(order, s.tieBreak+" ASC")
	}
	b.WriteString(" ORDER BY " + strings.Join(order, ", "))

	if q.Limit != nil {
		b.WriteString(" LIMIT " + next(*q.Limit))
	}
	if q.Offset != nil {
		b.WriteString(" OFFSET " + next(*q.Offset))
	}

	return b.String(), args
}
