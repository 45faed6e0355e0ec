package shopping

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultQuantity = 1
	DefaultUnit     = "pcs"
)

// Item is a single purchasable entry of a shopping list. The struct doubles as
// the shopping_items wire record: json and gorm tags carry the snake_case keys.
type Item struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	ListID         string    `json:"list_id" gorm:"type:uuid;index;not null"`
	UserID         string    `json:"user_id" gorm:"type:uuid;index;not null"`
	Name           string    `json:"name" gorm:"not null"`
	Category       *string   `json:"category"`
	Quantity       int       `json:"quantity" gorm:"not null;default:1"`
	Unit           string    `json:"unit" gorm:"not null;default:pcs"`
	EstimatedPrice *float64  `json:"estimated_price"`
	ActualPrice    *float64  `json:"actual_price"`
	IsPurchased    bool      `json:"is_purchased" gorm:"not null;default:false"`
	Notes          *string   `json:"notes"`
	Barcode        *string   `json:"barcode"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewItem returns an item with a client generated id and the default
// quantity, unit and timestamps applied.
func NewItem(listID, userID, name string, now time.Time) Item {
	return Item{
		ID:        uuid.NewString(),
		ListID:    listID,
		UserID:    userID,
		Name:      name,
		Quantity:  DefaultQuantity,
		Unit:      DefaultUnit,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UnitPrice prefers the actual price over the estimate.
func (i Item) UnitPrice() float64 {
	if i.ActualPrice != nil {
		return *i.ActualPrice
	}
	if i.EstimatedPrice != nil {
		return *i.EstimatedPrice
	}
	return 0
}

func (i Item) TotalPrice() float64 {
	return i.UnitPrice() * float64(i.Quantity)
}

// Touch refreshes UpdatedAt, never moving it before CreatedAt.
func (i *Item) Touch(now time.Time) {
	if now.Before(i.CreatedAt) {
		now = i.CreatedAt
	}
	i.UpdatedAt = now
}

// ApplyDefaults fills the fields a caller may leave empty when adding an item.
func (i *Item) ApplyDefaults(userID string, now time.Time) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.UserID == "" {
		i.UserID = userID
	}
	if i.Quantity <= 0 {
		i.Quantity = DefaultQuantity
	}
	if i.Unit == "" {
		i.Unit = DefaultUnit
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	if i.UpdatedAt.Before(i.CreatedAt) {
		i.UpdatedAt = i.CreatedAt
	}
}

// UpdateValues lists the columns written by an item update.
func (i Item) UpdateValues() map[string]any {
	return map[string]any{
		"list_id":         i.ListID,
		"user_id":         i.UserID,
		"name":            i.Name,
		"category":        i.Category,
		"quantity":        i.Quantity,
		"unit":            i.Unit,
		"estimated_price": i.EstimatedPrice,
		"actual_price":    i.ActualPrice,
		"is_purchased":    i.IsPurchased,
		"notes":           i.Notes,
		"barcode":         i.Barcode,
		"updated_at":      i.UpdatedAt,
	}
}

func (i Item) Clone() Item {
	cloned := i
	cloned.Category = cloneString(i.Category)
	cloned.EstimatedPrice = cloneFloat(i.EstimatedPrice)
	cloned.ActualPrice = cloneFloat(i.ActualPrice)
	cloned.Notes = cloneString(i.Notes)
	cloned.Barcode = cloneString(i.Barcode)
	return cloned
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	cloned := make([]Item, len(items))
	for idx := range items {
		cloned[idx] = items[idx].Clone()
	}
	return cloned
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
