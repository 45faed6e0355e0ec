package common

import (
	"net/http"

	"smartshopping-go/internal/domain/session"
	"smartshopping-go/internal/transport/httpserver/middleware"
)

// sessionResponse describes the signed-in user and how their rows are reached.
// TokenForwarded is false in mock-auth mode, where remote calls carry no
// user token.
type sessionResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	AvatarURL      string `json:"avatar_url"`
	DataBackend    string `json:"data_backend"`
	TokenForwarded bool   `json:"token_forwarded"`
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	_, forwarded := session.AccessTokenFromContext(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		AvatarURL:      user.AvatarURL,
		DataBackend:    h.backends.Data,
		TokenForwarded: forwarded,
	})
}
