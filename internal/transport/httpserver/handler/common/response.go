package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"smartshopping-go/internal/domain/lists"
	"smartshopping-go/internal/domain/session"
	"smartshopping-go/internal/domain/templates"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst)
}

// ErrorStatus maps a domain error to its response. known is false for errors
// the caller should log as internal.
func ErrorStatus(err error) (status int, code, message string, known bool) {
	var cascade *lists.PartialCascadeError
	switch {
	case errors.Is(err, session.ErrUnauthenticated):
		return http.StatusUnauthorized, "invalid_token", "not authenticated", true
	case errors.As(err, &cascade):
		return http.StatusBadGateway, "partial_cascade", err.Error(), true
	case errors.Is(err, templates.ErrBuiltinTemplate):
		return http.StatusConflict, "builtin_template", "built-in templates cannot be modified", true
	case errors.Is(err, templates.ErrTemplateNotFound):
		return http.StatusNotFound, "not_found", "template not found", true
	case errors.Is(err, templates.ErrInvalidName):
		return http.StatusBadRequest, "invalid_request", "name is required", true
	case errors.Is(err, lists.ErrListNotFound):
		return http.StatusNotFound, "not_found", "list not found", true
	case errors.Is(err, lists.ErrItemNotFound):
		return http.StatusNotFound, "not_found", "item not found", true
	case lists.IsRemoteFailure(err):
		return http.StatusBadGateway, "remote_failure", err.Error(), true
	default:
		return http.StatusInternalServerError, "internal_error", "internal error", false
	}
}

func ParseBoolParam(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return fallback, nil
	}
	switch value {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	default:
		return false, errors.New("invalid bool")
	}
}

// TrimmedOrNil drops blank optional strings.
func TrimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
