package middleware

import (
	"net/http"
	"strings"
)

// corsMethods are the methods the shopping routes answer to.
const corsMethods = "GET,POST,PUT,DELETE,OPTIONS"

var defaultCORSHeaders = []string{"Authorization", "Content-Type"}

// NewCORS answers preflights and tags responses for the allowed origins. A
// "*" entry allows any origin. Requests from other origins pass through
// without CORS headers.
func NewCORS(allowedOrigins, allowedHeaders []string) func(http.Handler) http.Handler {
	allowAny := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
			continue
		case "*":
			allowAny = true
		default:
			allowed[origin] = struct{}{}
		}
	}

	headers := make([]string, 0, len(allowedHeaders))
	for _, header := range allowedHeaders {
		if header = strings.TrimSpace(header); header != "" {
			headers = append(headers, http.CanonicalHeaderKey(header))
		}
	}
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}
	headerList := strings.Join(headers, ",")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			_, known := allowed[origin]
			if origin != "" && (known || allowAny) {
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", corsMethods)
				w.Header().Set("Access-Control-Allow-Headers", headerList)
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
