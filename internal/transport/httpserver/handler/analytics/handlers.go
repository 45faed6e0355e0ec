package analytics

import (
	"net/http"

	analyticsdomain "smartshopping-go/internal/domain/analytics"
	listsdomain "smartshopping-go/internal/domain/lists"
	"smartshopping-go/internal/domain/shopping"
	commonhandler "smartshopping-go/internal/transport/httpserver/handler/common"
	"smartshopping-go/internal/transport/httpserver/middleware"
	"smartshopping-go/pkg/logger"
)

type Handlers struct {
	Lists     *listsdomain.Registry
	Analytics *analyticsdomain.Service
	log       logger.Logger
}

func New(registry *listsdomain.Registry, analytics *analyticsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Lists:     registry,
		Analytics: analytics,
		log:       log,
	}
}

type categoryResponse struct {
	TimeFrame analyticsdomain.TimeFrame          `json:"timeframe"`
	Items     []analyticsdomain.CategorySpending `json:"items"`
}

type monthlyResponse struct {
	TimeFrame analyticsdomain.TimeFrame         `json:"timeframe"`
	Items     []analyticsdomain.MonthlySpending `json:"items"`
}

type summaryResponse struct {
	TimeFrame analyticsdomain.TimeFrame `json:"timeframe"`
	analyticsdomain.Summary
}

func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	snapshot, frame, ok := h.prepare(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		TimeFrame: frame,
		Summary:   h.Analytics.Summary(snapshot, frame),
	})
}

func (h *Handlers) ByCategory(w http.ResponseWriter, r *http.Request) {
	snapshot, frame, ok := h.prepare(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, categoryResponse{
		TimeFrame: frame,
		Items:     h.Analytics.SpendingByCategory(snapshot, frame),
	})
}

func (h *Handlers) Monthly(w http.ResponseWriter, r *http.Request) {
	snapshot, frame, ok := h.prepare(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, monthlyResponse{
		TimeFrame: frame,
		Items:     h.Analytics.MonthlySpending(snapshot, frame),
	})
}

// prepare resolves the timeframe and the caller's lists. Analytics work on
// whatever the store holds; a failed first load is logged, not returned.
func (h *Handlers) prepare(w http.ResponseWriter, r *http.Request) ([]shopping.List, analyticsdomain.TimeFrame, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return nil, "", false
	}

	frame, err := analyticsdomain.ParseTimeFrame(r.URL.Query().Get("timeframe"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid timeframe")
		return nil, "", false
	}

	store := h.Lists.ForUser(user.ID)
	if !store.Snapshot().Fetched {
		if err := store.FetchLists(r.Context()); err != nil {
			h.log.Warn("analytics.load: using last known lists", "user_id", user.ID, "err", err)
		}
	}
	return store.Lists(), frame, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}
