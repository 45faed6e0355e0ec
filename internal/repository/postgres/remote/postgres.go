package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	remotedomain "smartshopping-go/internal/domain/remote"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMissingFilters = errors.New("refusing to write without filters")

// PostgresDataService serves the generic row store straight from Postgres.
// Row level scoping is done by the callers' filters.
type PostgresDataService struct {
	db *gorm.DB
}

var _ remotedomain.DataService = (*PostgresDataService)(nil)

func NewPostgres(db *gorm.DB) *PostgresDataService {
	return &PostgresDataService{db: db}
}

func (r *PostgresDataService) Select(ctx context.Context, table string, query remotedomain.Query, dst any) error {
	if !remotedomain.ValidIdentifier(table) {
		return fmt.Errorf("%w: table %q", remotedomain.ErrInvalidIdentifier, table)
	}

	where, args, err := whereClause(query.Filters)
	if err != nil {
		return err
	}

	tx := r.db.WithContext(ctx).Table(table)
	if where != "" {
		tx = tx.Where(where, args...)
	}
	if query.Order != nil {
		if !remotedomain.ValidIdentifier(query.Order.Column) {
			return fmt.Errorf("%w: column %q", remotedomain.ErrInvalidIdentifier, query.Order.Column)
		}
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: query.Order.Column},
			Desc:   query.Order.Descending,
		})
	}
	return tx.Find(dst).Error
}

func (r *PostgresDataService) Insert(ctx context.Context, table string, record any) error {
	if !remotedomain.ValidIdentifier(table) {
		return fmt.Errorf("%w: table %q", remotedomain.ErrInvalidIdentifier, table)
	}
	return r.db.WithContext(ctx).
		Table(table).
		Clauses(clause.Returning{}).
		Create(record).
		Error
}

func (r *PostgresDataService) Update(ctx context.Context, table string, values map[string]any, filters []remotedomain.Filter) error {
	if !remotedomain.ValidIdentifier(table) {
		return fmt.Errorf("%w: table %q", remotedomain.ErrInvalidIdentifier, table)
	}
	if len(filters) == 0 {
		return ErrMissingFilters
	}
	for column := range values {
		if !remotedomain.ValidIdentifier(column) {
			return fmt.Errorf("%w: column %q", remotedomain.ErrInvalidIdentifier, column)
		}
	}

	where, args, err := whereClause(filters)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Table(table).
		Where(where, args...).
		Updates(values).
		Error
}

func (r *PostgresDataService) Delete(ctx context.Context, table string, filters []remotedomain.Filter) error {
	if !remotedomain.ValidIdentifier(table) {
		return fmt.Errorf("%w: table %q", remotedomain.ErrInvalidIdentifier, table)
	}
	if len(filters) == 0 {
		return ErrMissingFilters
	}

	where, args, err := whereClause(filters)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Exec(fmt.Sprintf("DELETE FROM %q WHERE %s", table, where), args...).
		Error
}

// whereClause joins equality filters with AND. Column names are validated
// and quoted, values are bound.
func whereClause(filters []remotedomain.Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	parts := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, filter := range filters {
		if !remotedomain.ValidIdentifier(filter.Column) {
			return "", nil, fmt.Errorf("%w: column %q", remotedomain.ErrInvalidIdentifier, filter.Column)
		}
		if filter.Value == nil {
			parts = append(parts, fmt.Sprintf("%q IS NULL", filter.Column))
			continue
		}
		parts = append(parts, fmt.Sprintf("%q = ?", filter.Column))
		args = append(args, filter.Value)
	}
	return strings.Join(parts, " AND "), args, nil
}
