package lists

import "smartshopping-go/internal/domain/shopping"

// Cache keeps the last known collection for instant display on start. It is
// best effort: implementations log their failures and never return them.
type Cache interface {
	Save(lists []shopping.List)
	Load() []shopping.List
	Clear()
}

type noopCache struct{}

func (noopCache) Save([]shopping.List) {}

func (noopCache) Load() []shopping.List {
	return nil
}

func (noopCache) Clear() {}
