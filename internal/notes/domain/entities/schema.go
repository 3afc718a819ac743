package entities

import "notekeeper/internal/notes/domain/query"

// Имена фильтров и полей сортировки.
const (
	FilterName         = "name"
	FilterIsFavorite   = "is_favorite"
	FilterCategoryName = "category__name"
	FilterTagName      = "tags__name"

	OrderID         = "id"
	OrderCreatedAt  = "created_at"
	OrderIsFavorite = "is_favorite"
)

var labelSchema = query.Schema{
	Filters:         []query.Filter{{Name: FilterName, Kind: query.Exact}},
	Searchable:      true,
	DefaultOrdering: []query.Order{{Field: OrderID}},
}

// Схемы выборки ресурсов.
var (
	CategorySchema = labelSchema
	TagSchema      = labelSchema
	NoteSchema     = query.Schema{
		Filters: []query.Filter{
			{Name: FilterIsFavorite, Kind: query.Boolean},
			{Name: FilterCategoryName, Kind: query.Exact},
			{Name: FilterTagName, Kind: query.Exact},
		},
		Searchable:      true,
		Ordering:        []string{OrderCreatedAt, OrderIsFavorite},
		DefaultOrdering: []query.Order{{Field: OrderCreatedAt}},
	}
)
