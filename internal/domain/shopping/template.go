package shopping

import (
	"encoding/json"
	"fmt"
	"time"
)

const DefaultTemplateCategory = "General"

// Source tags where a template comes from. Built-in templates ship with the
// app and are never written to the backend.
type Source int

const (
	SourcePersisted Source = iota
	SourceBuiltin
)

func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	default:
		return "persisted"
	}
}

func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Source) UnmarshalText(text []byte) error {
	switch string(text) {
	case "builtin":
		*s = SourceBuiltin
	case "persisted", "":
		*s = SourcePersisted
	default:
		return fmt.Errorf("unknown template source %q", string(text))
	}
	return nil
}

type TemplateItem struct {
	ID             string   `json:"id" toml:"id"`
	Name           string   `json:"name" toml:"name"`
	Category       *string  `json:"category" toml:"category"`
	Quantity       int      `json:"quantity" toml:"quantity"`
	EstimatedPrice *float64 `json:"estimated_price" toml:"estimated_price"`
	Notes          *string  `json:"notes" toml:"notes"`
}

type Template struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Category    string         `json:"category"`
	TimesUsed   int            `json:"times_used"`
	IsFavorite  bool           `json:"is_favorite"`
	IsPublic    bool           `json:"is_public"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Items       []TemplateItem `json:"items"`
	Source      Source         `json:"source"`
}

// TemplateRecord is the shopping_templates row. Items are stored as a JSON
// encoded text column.
type TemplateRecord struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string    `json:"user_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description"`
	Category    string    `json:"category" gorm:"not null;default:General"`
	TimesUsed   int       `json:"times_used" gorm:"not null;default:0"`
	IsFavorite  bool      `json:"is_favorite" gorm:"not null;default:false"`
	IsPublic    bool      `json:"is_public" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Items       *string   `json:"items"`
}

func (t Template) IsBuiltin() bool {
	return t.Source == SourceBuiltin
}

func (t Template) TotalItems() int {
	return len(t.Items)
}

func (t Template) Record() (TemplateRecord, error) {
	record := TemplateRecord{
		ID:          t.ID,
		UserID:      t.UserID,
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		TimesUsed:   t.TimesUsed,
		IsFavorite:  t.IsFavorite,
		IsPublic:    t.IsPublic,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Items != nil {
		encoded, err := json.Marshal(t.Items)
		if err != nil {
			return TemplateRecord{}, fmt.Errorf("encode template items: %w", err)
		}
		value := string(encoded)
		record.Items = &value
	}
	return record, nil
}

// TemplateFromRecord decodes a stored template. Undecodable items are dropped
// rather than failing the whole template.
func TemplateFromRecord(record TemplateRecord) Template {
	template := Template{
		ID:          record.ID,
		UserID:      record.UserID,
		Name:        record.Name,
		Description: record.Description,
		Category:    record.Category,
		TimesUsed:   record.TimesUsed,
		IsFavorite:  record.IsFavorite,
		IsPublic:    record.IsPublic,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
		Source:      SourcePersisted,
	}
	if template.Category == "" {
		template.Category = DefaultTemplateCategory
	}
	if record.Items != nil && *record.Items != "" {
		var items []TemplateItem
		if err := json.Unmarshal([]byte(*record.Items), &items); err == nil {
			template.Items = items
		}
	}
	return template
}

// ToItem turns a template entry into a new item for the given list.
func (ti TemplateItem) ToItem(listID, userID string, now time.Time) Item {
	item := NewItem(listID, userID, ti.Name, now)
	item.Category = cloneString(ti.Category)
	if ti.Quantity > 0 {
		item.Quantity = ti.Quantity
	}
	item.EstimatedPrice = cloneFloat(ti.EstimatedPrice)
	item.Notes = cloneString(ti.Notes)
	return item
}

func (t Template) Clone() Template {
	cloned := t
	cloned.Description = cloneString(t.Description)
	if t.Items != nil {
		cloned.Items = make([]TemplateItem, len(t.Items))
		for idx, item := range t.Items {
			item.Category = cloneString(item.Category)
			item.EstimatedPrice = cloneFloat(item.EstimatedPrice)
			item.Notes = cloneString(item.Notes)
			cloned.Items[idx] = item
		}
	}
	return cloned
}
