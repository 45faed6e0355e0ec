package inmemory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"smartshopping-go/internal/domain/remote"
)

type row map[string]any

// InMemoryDataService keeps rows per table as decoded JSON objects. Records go
// through their json tags, so column names match the wire keys.
type InMemoryDataService struct {
	mu     sync.RWMutex
	tables map[string][]row
}

func NewInMemoryDataService() *InMemoryDataService {
	return &InMemoryDataService{
		tables: make(map[string][]row),
	}
}

func (s *InMemoryDataService) Select(ctx context.Context, table string, query remote.Query, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	filters, err := normalizeFilters(table, query.Filters)
	if err != nil {
		return err
	}

	s.mu.RLock()
	matched := make([]row, 0)
	for _, existing := range s.tables[table] {
		if existing.matches(filters) {
			matched = append(matched, existing)
		}
	}
	s.mu.RUnlock()

	if query.Order != nil {
		column := query.Order.Column
		descending := query.Order.Descending
		sort.SliceStable(matched, func(i, j int) bool {
			if descending {
				return less(matched[j][column], matched[i][column])
			}
			return less(matched[i][column], matched[j][column])
		})
	}

	payload, err := json.Marshal(matched)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return json.Unmarshal(payload, dst)
}

func (s *InMemoryDataService) Insert(ctx context.Context, table string, record any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !remote.ValidIdentifier(table) {
		return remote.ErrInvalidIdentifier
	}
	stored, err := toRow(record)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}

	s.mu.Lock()
	if id, ok := stored["id"]; ok {
		for _, existing := range s.tables[table] {
			if reflect.DeepEqual(existing["id"], id) {
				s.mu.Unlock()
				return fmt.Errorf("insert %s: duplicate id %v", table, id)
			}
		}
	}
	s.tables[table] = append(s.tables[table], stored)
	s.mu.Unlock()

	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return json.Unmarshal(payload, record)
}

func (s *InMemoryDataService) Update(ctx context.Context, table string, values map[string]any, filters []remote.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(filters) == 0 {
		return fmt.Errorf("update %s: filters are required", table)
	}
	normalized, err := normalizeFilters(table, filters)
	if err != nil {
		return err
	}
	changes, err := toRow(values)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tables[table] {
		if !existing.matches(normalized) {
			continue
		}
		for column, value := range changes {
			existing[column] = value
		}
	}
	return nil
}

func (s *InMemoryDataService) Delete(ctx context.Context, table string, filters []remote.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(filters) == 0 {
		return fmt.Errorf("delete %s: filters are required", table)
	}
	normalized, err := normalizeFilters(table, filters)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]row, 0, len(s.tables[table]))
	for _, existing := range s.tables[table] {
		if !existing.matches(normalized) {
			kept = append(kept, existing)
		}
	}
	s.tables[table] = kept
	return nil
}

// Len reports the number of rows in table.
func (s *InMemoryDataService) Len(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

func (r row) matches(filters row) bool {
	for column, value := range filters {
		if !reflect.DeepEqual(r[column], value) {
			return false
		}
	}
	return true
}

func normalizeFilters(table string, filters []remote.Filter) (row, error) {
	if !remote.ValidIdentifier(table) {
		return nil, remote.ErrInvalidIdentifier
	}
	values := make(map[string]any, len(filters))
	for _, filter := range filters {
		if !remote.ValidIdentifier(filter.Column) {
			return nil, remote.ErrInvalidIdentifier
		}
		values[filter.Column] = filter.Value
	}
	return toRow(values)
}

// toRow round-trips value through JSON so stored rows and filter values share
// one representation.
func toRow(value any) (row, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var decoded row
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func less(a, b any) bool {
	switch left := a.(type) {
	case float64:
		right, ok := b.(float64)
		return ok && left < right
	case bool:
		right, ok := b.(bool)
		return ok && !left && right
	case string:
		right, ok := b.(string)
		if !ok {
			return false
		}
		leftTime, leftErr := time.Parse(time.RFC3339Nano, left)
		rightTime, rightErr := time.Parse(time.RFC3339Nano, right)
		if leftErr == nil && rightErr == nil {
			return leftTime.Before(rightTime)
		}
		return left < right
	default:
		return a == nil && b != nil
	}
}
