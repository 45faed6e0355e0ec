// Package remote describes the backend the app keeps its data in: a generic
// row store addressed by table name, equality filters and an ordering.
package remote

import (
	"context"
	"errors"
)

const (
	TableLists     = "shopping_lists"
	TableItems     = "shopping_items"
	TableTemplates = "shopping_templates"
)

var ErrInvalidIdentifier = errors.New("invalid identifier")

// Filter is an equality predicate on a single column.
type Filter struct {
	Column string
	Value  any
}

type Order struct {
	Column     string
	Descending bool
}

type Query struct {
	Filters []Filter
	Order   *Order
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

func Where(filters ...Filter) Query {
	return Query{Filters: filters}
}

func (q Query) OrderBy(column string, descending bool) Query {
	q.Order = &Order{Column: column, Descending: descending}
	return q
}

type DataService interface {
	// Select decodes the matching rows into dst, a pointer to a slice.
	Select(ctx context.Context, table string, query Query, dst any) error
	// Insert stores record (a pointer) and overwrites it with the stored row.
	Insert(ctx context.Context, table string, record any) error
	Update(ctx context.Context, table string, values map[string]any, filters []Filter) error
	Delete(ctx context.Context, table string, filters []Filter) error
}

// ValidIdentifier reports whether name is safe to use as a table or column.
func ValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
