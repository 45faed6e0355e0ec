package lists

import (
	"context"
	"net/http"

	listsdomain "smartshopping-go/internal/domain/lists"
	commonhandler "smartshopping-go/internal/transport/httpserver/handler/common"
	"smartshopping-go/internal/transport/httpserver/middleware"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

func parseBoolParam(value string, fallback bool) (bool, error) {
	return commonhandler.ParseBoolParam(value, fallback)
}

func trimmedOrNil(value *string) *string {
	return commonhandler.TrimmedOrNil(value)
}

// storeFor resolves the caller's store and loads it from the backend on
// first use. A failed first load is not fatal: the store keeps whatever the
// cache held and reports the failure through its snapshot.
func (h *Handlers) storeFor(w http.ResponseWriter, r *http.Request) (*listsdomain.Store, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return nil, false
	}

	store := h.Lists.ForUser(user.ID)
	if !store.Snapshot().Fetched {
		h.load(r.Context(), store, user.ID)
	}
	return store, true
}

func (h *Handlers) load(ctx context.Context, store *listsdomain.Store, userID string) {
	if err := store.FetchLists(ctx); err != nil {
		h.log.Warn("lists.load: serving last known state", "user_id", userID, "err", err)
	}
}

// fail writes err and logs it when it is not an expected domain failure.
func (h *Handlers) fail(w http.ResponseWriter, op string, err error, args ...any) {
	status, code, message, known := commonhandler.ErrorStatus(err)
	if !known {
		h.log.InternalError(op+": unexpected failure", err, args...)
	}
	writeError(w, status, code, message)
}
