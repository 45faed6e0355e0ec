package handler

import (
	analyticsdomain "smartshopping-go/internal/domain/analytics"
	listsdomain "smartshopping-go/internal/domain/lists"
	templatesdomain "smartshopping-go/internal/domain/templates"
	analyticshandler "smartshopping-go/internal/transport/httpserver/handler/analytics"
	commonhandler "smartshopping-go/internal/transport/httpserver/handler/common"
	listshandler "smartshopping-go/internal/transport/httpserver/handler/lists"
	templateshandler "smartshopping-go/internal/transport/httpserver/handler/templates"
	"smartshopping-go/pkg/logger"
)

type Handlers struct {
	Common    *commonhandler.Handlers
	Lists     *listshandler.Handlers
	Templates *templateshandler.Handlers
	Analytics *analyticshandler.Handlers
}

func New(registry *listsdomain.Registry, templates *templatesdomain.Service, analytics *analyticsdomain.Service, backends commonhandler.Backends, log logger.Logger) *Handlers {
	return &Handlers{
		Common:    commonhandler.New(backends, log),
		Lists:     listshandler.New(registry, log),
		Templates: templateshandler.New(registry, templates, log),
		Analytics: analyticshandler.New(registry, analytics, log),
	}
}
