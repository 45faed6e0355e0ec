package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartshopping-go/internal/config"
	"smartshopping-go/internal/domain/session"
	"smartshopping-go/pkg/logger"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" || r.Header.Get("apikey") != "anon-key" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"id":"user-1","email":"a@example.com","user_metadata":{"full_name":"Ann"}}`)
	}))
	t.Cleanup(server.Close)
	return server
}

func echoSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.UserIDFromContext(r.Context())
	token, _ := session.AccessTokenFromContext(r.Context())
	user, _ := UserFromContext(r.Context())
	_ = json.NewEncoder(w).Encode(map[string]string{"user_id": userID, "token": token, "name": user.Name})
}

func TestSupabaseAuthAcceptsValidToken(t *testing.T) {
	server := newAuthServer(t)
	auth := NewSupabaseAuth(config.SupabaseConfig{URL: server.URL, PublishableKey: "anon-key"}, logger.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/lists", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	auth.Middleware(http.HandlerFunc(echoSession)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["user_id"] != "user-1" || body["token"] != "good-token" || body["name"] != "Ann" {
		t.Fatalf("unexpected session values %v", body)
	}
}

func TestSupabaseAuthRejectsBadToken(t *testing.T) {
	server := newAuthServer(t)
	auth := NewSupabaseAuth(config.SupabaseConfig{URL: server.URL, PublishableKey: "anon-key"}, logger.Nop())

	for _, header := range []string{"", "Bearer bad-token", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/lists", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		auth.Middleware(http.HandlerFunc(echoSession)).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %q, got %d", header, rec.Code)
		}
	}
}

func TestSupabaseAuthSkipUsesMockUser(t *testing.T) {
	auth := NewSupabaseAuth(config.SupabaseConfig{SkipAuth: true, MockUserID: "mock-user"}, logger.Nop())

	rec := httptest.NewRecorder()
	auth.Middleware(http.HandlerFunc(echoSession)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["user_id"] != "mock-user" || body["token"] != "" {
		t.Fatalf("unexpected session values %v", body)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:5173"}, []string{"authorization", "content-type", "x-client-version"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/lists", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected preflight 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("expected allowed origin header")
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Authorization,Content-Type,X-Client-Version" {
		t.Fatalf("expected configured headers, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET,POST,PUT,DELETE,OPTIONS" {
		t.Fatalf("expected shopping methods, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/lists", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("expected no cors header for unknown origin")
	}
}

func TestCORSWildcardAndDefaultHeaders(t *testing.T) {
	handler := NewCORS([]string{"*"}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/lists", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://app.example" {
		t.Fatalf("expected wildcard to echo the origin")
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Authorization,Content-Type" {
		t.Fatalf("expected default headers, got %q", got)
	}
}
