// Package localcache stores the last known list collection as one JSON
// snapshot under a fixed key.
package localcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smartshopping-go/internal/domain/lists"
	"smartshopping-go/internal/domain/shopping"
	"smartshopping-go/pkg/logger"
)

const (
	DefaultKey = "cached_shopping_lists"

	// TimeLayout is ISO-8601 with fixed nanosecond precision.
	TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

	opTimeout = 5 * time.Second
)

type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// KeyForUser scopes the fixed key to one user so several accounts can share
// a device without reading each other's lists.
func KeyForUser(userID string) string {
	if userID == "" {
		return DefaultKey
	}
	return DefaultKey + ":" + userID
}

type Cache struct {
	kv  KV
	key string
	log logger.Logger
}

var _ lists.Cache = (*Cache)(nil)

func New(kv KV, key string, log logger.Logger) *Cache {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{kv: kv, key: key, log: log}
}

// Save overwrites the snapshot. Failures are logged only.
func (c *Cache) Save(collection []shopping.List) {
	payload, err := Encode(collection)
	if err != nil {
		c.log.InternalError("localcache.save: encode failed", err, "key", c.key)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.kv.Set(ctx, c.key, payload); err != nil {
		c.log.InternalError("localcache.save: write failed", err, "key", c.key)
	}
}

// Load returns the snapshot, or nil when it is missing or undecodable.
func (c *Cache) Load() []shopping.List {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	payload, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		c.log.InternalError("localcache.load: read failed", err, "key", c.key)
		return nil
	}
	if !ok {
		return nil
	}

	collection, err := Decode(payload)
	if err != nil {
		c.log.Warn("localcache.load: dropping undecodable snapshot", "key", c.key, "err", err)
		return nil
	}
	return collection
}

func (c *Cache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.kv.Delete(ctx, c.key); err != nil {
		c.log.InternalError("localcache.clear: delete failed", err, "key", c.key)
	}
}

type listEntry struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Store       *string     `json:"store"`
	Budget      *float64    `json:"budget"`
	TotalSpent  float64     `json:"total_spent"`
	IsCompleted bool        `json:"is_completed"`
	CreatedAt   string      `json:"created_at"`
	CompletedAt *string     `json:"completed_at"`
	Items       []itemEntry `json:"items"`
}

type itemEntry struct {
	ID             string   `json:"id"`
	ListID         string   `json:"list_id"`
	UserID         string   `json:"user_id"`
	Name           string   `json:"name"`
	Category       *string  `json:"category"`
	Quantity       int      `json:"quantity"`
	Unit           string   `json:"unit"`
	EstimatedPrice *float64 `json:"estimated_price"`
	ActualPrice    *float64 `json:"actual_price"`
	IsPurchased    bool     `json:"is_purchased"`
	Notes          *string  `json:"notes"`
	Barcode        *string  `json:"barcode"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

func Encode(collection []shopping.List) ([]byte, error) {
	entries := make([]listEntry, 0, len(collection))
	for _, list := range collection {
		entry := listEntry{
			ID:          list.ID,
			UserID:      list.UserID,
			Name:        list.Name,
			Description: list.Description,
			Store:       list.Store,
			Budget:      list.Budget,
			TotalSpent:  list.TotalSpent,
			IsCompleted: list.IsCompleted,
			CreatedAt:   formatTime(list.CreatedAt),
			Items:       make([]itemEntry, 0, len(list.Items)),
		}
		if list.CompletedAt != nil {
			completedAt := formatTime(*list.CompletedAt)
			entry.CompletedAt = &completedAt
		}
		for _, item := range list.Items {
			entry.Items = append(entry.Items, itemEntry{
				ID:             item.ID,
				ListID:         item.ListID,
				UserID:         item.UserID,
				Name:           item.Name,
				Category:       item.Category,
				Quantity:       item.Quantity,
				Unit:           item.Unit,
				EstimatedPrice: item.EstimatedPrice,
				ActualPrice:    item.ActualPrice,
				IsPurchased:    item.IsPurchased,
				Notes:          item.Notes,
				Barcode:        item.Barcode,
				CreatedAt:      formatTime(item.CreatedAt),
				UpdatedAt:      formatTime(item.UpdatedAt),
			})
		}
		entries = append(entries, entry)
	}
	return json.Marshal(entries)
}

func Decode(payload []byte) ([]shopping.List, error) {
	var entries []listEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	collection := make([]shopping.List, 0, len(entries))
	for _, entry := range entries {
		createdAt, err := parseTime(entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("list %s created_at: %w", entry.ID, err)
		}
		list := shopping.List{
			ID:          entry.ID,
			UserID:      entry.UserID,
			Name:        entry.Name,
			Description: entry.Description,
			Store:       entry.Store,
			Budget:      entry.Budget,
			TotalSpent:  entry.TotalSpent,
			IsCompleted: entry.IsCompleted,
			CreatedAt:   createdAt,
			Items:       make([]shopping.Item, 0, len(entry.Items)),
		}
		if entry.CompletedAt != nil {
			completedAt, err := parseTime(*entry.CompletedAt)
			if err != nil {
				return nil, fmt.Errorf("list %s completed_at: %w", entry.ID, err)
			}
			list.CompletedAt = &completedAt
		}
		for _, itemEntry := range entry.Items {
			item, err := decodeItem(itemEntry)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
		collection = append(collection, list)
	}
	return collection, nil
}

func decodeItem(entry itemEntry) (shopping.Item, error) {
	createdAt, err := parseTime(entry.CreatedAt)
	if err != nil {
		return shopping.Item{}, fmt.Errorf("item %s created_at: %w", entry.ID, err)
	}
	updatedAt, err := parseTime(entry.UpdatedAt)
	if err != nil {
		return shopping.Item{}, fmt.Errorf("item %s updated_at: %w", entry.ID, err)
	}
	return shopping.Item{
		ID:             entry.ID,
		ListID:         entry.ListID,
		UserID:         entry.UserID,
		Name:           entry.Name,
		Category:       entry.Category,
		Quantity:       entry.Quantity,
		Unit:           entry.Unit,
		EstimatedPrice: entry.EstimatedPrice,
		ActualPrice:    entry.ActualPrice,
		IsPurchased:    entry.IsPurchased,
		Notes:          entry.Notes,
		Barcode:        entry.Barcode,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

func formatTime(value time.Time) string {
	return value.UTC().Format(TimeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(TimeLayout, value)
}
