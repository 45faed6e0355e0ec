package templates

import (
	"net/http"

	listsdomain "smartshopping-go/internal/domain/lists"
	templatesdomain "smartshopping-go/internal/domain/templates"
	commonhandler "smartshopping-go/internal/transport/httpserver/handler/common"
	"smartshopping-go/pkg/logger"
)

type Handlers struct {
	Lists     *listsdomain.Registry
	Templates *templatesdomain.Service
	log       logger.Logger
}

func New(registry *listsdomain.Registry, templates *templatesdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Lists:     registry,
		Templates: templates,
		log:       log,
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

func (h *Handlers) fail(w http.ResponseWriter, op string, err error, args ...any) {
	status, code, message, known := commonhandler.ErrorStatus(err)
	if !known {
		h.log.InternalError(op+": unexpected failure", err, args...)
	}
	writeError(w, status, code, message)
}
