package lists

import (
	listsdomain "smartshopping-go/internal/domain/lists"
	"smartshopping-go/pkg/logger"
)

type Handlers struct {
	Lists *listsdomain.Registry
	log   logger.Logger
}

func New(registry *listsdomain.Registry, log logger.Logger) *Handlers {
	return &Handlers{
		Lists: registry,
		log:   log,
	}
}
