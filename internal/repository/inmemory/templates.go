package inmemory

import (
	"sync"
	"time"

	"smartshopping-go/internal/domain/shopping"
)

type InMemoryTemplatesCache struct {
	mu    sync.RWMutex
	items map[string]templatesItem
}

type templatesItem struct {
	value     []shopping.Template
	expiresAt time.Time
}

func NewInMemoryTemplatesCache() *InMemoryTemplatesCache {
	return &InMemoryTemplatesCache{
		items: make(map[string]templatesItem),
	}
}

func (c *InMemoryTemplatesCache) GetByUserID(userID string) ([]shopping.Template, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[userID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, userID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneTemplates(item.value), true
}

func (c *InMemoryTemplatesCache) SetByUserID(userID string, templates []shopping.Template, ttl time.Duration) {
	if ttl <= 0 {
		c.DeleteByUserID(userID)
		return
	}

	c.mu.Lock()
	c.items[userID] = templatesItem{
		value:     cloneTemplates(templates),
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryTemplatesCache) DeleteByUserID(userID string) {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
}

func cloneTemplates(templates []shopping.Template) []shopping.Template {
	if templates == nil {
		return nil
	}
	cloned := make([]shopping.Template, len(templates))
	for i := range templates {
		cloned[i] = templates[i].Clone()
	}
	return cloned
}
