package shopping

import (
	"time"

	"github.com/google/uuid"
)

type BudgetStatus string

const (
	BudgetStatusNone    BudgetStatus = "none"
	BudgetStatusOK      BudgetStatus = "ok"
	BudgetStatusWarning BudgetStatus = "warning"
	BudgetStatusOver    BudgetStatus = "over"
)

// List is a shopping list together with its items. TotalSpent is maintained:
// every item mutation must be followed by RecomputeTotal.
type List struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Store       *string    `json:"store"`
	Budget      *float64   `json:"budget"`
	TotalSpent  float64    `json:"total_spent"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Items       []Item     `json:"items"`
}

// ListRecord is the shopping_lists row; items live in their own table.
type ListRecord struct {
	ID          string     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string     `json:"user_id" gorm:"type:uuid;index;not null"`
	Name        string     `json:"name" gorm:"not null"`
	Description *string    `json:"description"`
	Store       *string    `json:"store"`
	Budget      *float64   `json:"budget"`
	TotalSpent  float64    `json:"total_spent" gorm:"not null;default:0"`
	IsCompleted bool       `json:"is_completed" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type NewListInput struct {
	UserID      string
	Name        string
	Description *string
	Store       *string
	Budget      *float64
}

// NewList builds an empty, active list with a client generated id.
func NewList(input NewListInput, now time.Time) List {
	return List{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Name:        input.Name,
		Description: cloneString(input.Description),
		Store:       cloneString(input.Store),
		Budget:      cloneFloat(input.Budget),
		CreatedAt:   now,
		Items:       []Item{},
	}
}

// ListFromRecord joins a list row with its items and derives TotalSpent from
// the items rather than trusting the stored column.
func ListFromRecord(record ListRecord, items []Item) List {
	if items == nil {
		items = []Item{}
	}
	list := List{
		ID:          record.ID,
		UserID:      record.UserID,
		Name:        record.Name,
		Description: record.Description,
		Store:       record.Store,
		Budget:      record.Budget,
		IsCompleted: record.IsCompleted,
		CreatedAt:   record.CreatedAt,
		CompletedAt: record.CompletedAt,
		Items:       items,
	}
	list.RecomputeTotal()
	return list
}

func (l List) Record() ListRecord {
	return ListRecord{
		ID:          l.ID,
		UserID:      l.UserID,
		Name:        l.Name,
		Description: l.Description,
		Store:       l.Store,
		Budget:      l.Budget,
		TotalSpent:  l.TotalSpent,
		IsCompleted: l.IsCompleted,
		CreatedAt:   l.CreatedAt,
		CompletedAt: l.CompletedAt,
	}
}

// UpdateValues lists the mutable columns written by a list update.
func (l List) UpdateValues() map[string]any {
	return map[string]any{
		"name":         l.Name,
		"description":  l.Description,
		"store":        l.Store,
		"budget":       l.Budget,
		"is_completed": l.IsCompleted,
		"total_spent":  l.TotalSpent,
		"completed_at": l.CompletedAt,
	}
}

func (l *List) RecomputeTotal() {
	total := 0.0
	for _, item := range l.Items {
		total += item.TotalPrice()
	}
	l.TotalSpent = total
}

func (l List) PurchasedCount() int {
	count := 0
	for _, item := range l.Items {
		if item.IsPurchased {
			count++
		}
	}
	return count
}

// Progress is the purchased share of items, 0 for an empty list.
func (l List) Progress() float64 {
	if len(l.Items) == 0 {
		return 0
	}
	return float64(l.PurchasedCount()) / float64(len(l.Items))
}

// SetCompleted keeps CompletedAt non-nil exactly when the list is completed.
func (l *List) SetCompleted(completed bool, now time.Time) {
	l.IsCompleted = completed
	if completed {
		l.CompletedAt = &now
		return
	}
	l.CompletedAt = nil
}

func (l List) BudgetStatus() BudgetStatus {
	if l.Budget == nil || *l.Budget <= 0 {
		return BudgetStatusNone
	}
	ratio := l.TotalSpent / *l.Budget
	switch {
	case ratio <= 0.7:
		return BudgetStatusOK
	case ratio <= 0.9:
		return BudgetStatusWarning
	default:
		return BudgetStatusOver
	}
}

func (l List) IndexOfItem(itemID string) int {
	for idx := range l.Items {
		if l.Items[idx].ID == itemID {
			return idx
		}
	}
	return -1
}

func (l List) Clone() List {
	cloned := l
	cloned.Description = cloneString(l.Description)
	cloned.Store = cloneString(l.Store)
	cloned.Budget = cloneFloat(l.Budget)
	cloned.CompletedAt = cloneTime(l.CompletedAt)
	cloned.Items = cloneItems(l.Items)
	if cloned.Items == nil {
		cloned.Items = []Item{}
	}
	return cloned
}

func CloneLists(lists []List) []List {
	cloned := make([]List, len(lists))
	for idx := range lists {
		cloned[idx] = lists[idx].Clone()
	}
	return cloned
}
