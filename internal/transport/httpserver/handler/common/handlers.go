package common

import (
	"net/http"

	"smartshopping-go/pkg/logger"
)

// Backends names the storage the server was started with.
type Backends struct {
	Data  string
	Cache string
}

type Handlers struct {
	backends Backends
	log      logger.Logger
}

func New(backends Backends, log logger.Logger) *Handlers {
	return &Handlers{backends: backends, log: log}
}

type healthResponse struct {
	Status       string `json:"status"`
	DataBackend  string `json:"data_backend"`
	CacheBackend string `json:"cache_backend"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		DataBackend:  h.backends.Data,
		CacheBackend: h.backends.Cache,
	})
}
