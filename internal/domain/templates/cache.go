package templates

import (
	"time"

	"smartshopping-go/internal/domain/shopping"
)

// Cache holds a user's persisted templates for a short while.
type Cache interface {
	GetByUserID(userID string) ([]shopping.Template, bool)
	SetByUserID(userID string, templates []shopping.Template, ttl time.Duration)
	DeleteByUserID(userID string)
}

type noopCache struct{}

func (noopCache) GetByUserID(string) ([]shopping.Template, bool) {
	return nil, false
}

func (noopCache) SetByUserID(string, []shopping.Template, time.Duration) {}

func (noopCache) DeleteByUserID(string) {}
