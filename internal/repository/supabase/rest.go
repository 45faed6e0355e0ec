// Package supabase talks to the PostgREST endpoint of a Supabase project.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smartshopping-go/internal/config"
	"smartshopping-go/internal/domain/remote"
	"smartshopping-go/internal/domain/session"
)

const defaultTimeout = 10 * time.Second

// RESTDataService maps the generic row store onto /rest/v1/{table}. Requests
// carry the caller's access token when the context has one, so row level
// security applies; otherwise the publishable key is used as bearer.
type RESTDataService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ remote.DataService = (*RESTDataService)(nil)

// APIError is a non 2xx PostgREST response.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("supabase %d (%s): %s", e.Status, e.Code, message)
	}
	return fmt.Sprintf("supabase %d: %s", e.Status, message)
}

func NewREST(cfg config.SupabaseConfig) *RESTDataService {
	timeout := cfg.RESTTimeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &RESTDataService{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.PublishableKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *RESTDataService) Select(ctx context.Context, table string, query remote.Query, dst any) error {
	params, err := filterParams(query.Filters)
	if err != nil {
		return err
	}
	params.Set("select", "*")
	if query.Order != nil {
		if !remote.ValidIdentifier(query.Order.Column) {
			return fmt.Errorf("%w: column %q", remote.ErrInvalidIdentifier, query.Order.Column)
		}
		direction := "asc"
		if query.Order.Descending {
			direction = "desc"
		}
		params.Set("order", query.Order.Column+"."+direction)
	}

	return s.do(ctx, http.MethodGet, table, params, nil, dst)
}

func (s *RESTDataService) Insert(ctx context.Context, table string, record any) error {
	var rows []json.RawMessage
	if err := s.do(ctx, http.MethodPost, table, url.Values{}, record, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	if err := json.Unmarshal(rows[0], record); err != nil {
		return fmt.Errorf("decode inserted %s row: %w", table, err)
	}
	return nil
}

func (s *RESTDataService) Update(ctx context.Context, table string, values map[string]any, filters []remote.Filter) error {
	if len(filters) == 0 {
		return fmt.Errorf("update %s: no filters", table)
	}
	params, err := filterParams(filters)
	if err != nil {
		return err
	}
	return s.do(ctx, http.MethodPatch, table, params, values, nil)
}

func (s *RESTDataService) Delete(ctx context.Context, table string, filters []remote.Filter) error {
	if len(filters) == 0 {
		return fmt.Errorf("delete %s: no filters", table)
	}
	params, err := filterParams(filters)
	if err != nil {
		return err
	}
	return s.do(ctx, http.MethodDelete, table, params, nil, nil)
}

func (s *RESTDataService) do(ctx context.Context, method, table string, params url.Values, body any, dst any) error {
	if s.baseURL == "" || s.apiKey == "" {
		return fmt.Errorf("supabase rest not configured")
	}
	if !remote.ValidIdentifier(table) {
		return fmt.Errorf("%w: table %q", remote.ErrInvalidIdentifier, table)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", table, err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := s.baseURL + "/rest/v1/" + table
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.bearer(ctx))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set("Prefer", "return=representation")
	} else if method != http.MethodGet {
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if dst == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", table, err)
	}
	return nil
}

func (s *RESTDataService) bearer(ctx context.Context) string {
	if token, ok := session.AccessTokenFromContext(ctx); ok {
		return token
	}
	return s.apiKey
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
		apiErr.Details = payload.Details
		apiErr.Hint = payload.Hint
	}
	return apiErr
}

// filterParams renders equality filters in PostgREST syntax: col=eq.value.
func filterParams(filters []remote.Filter) (url.Values, error) {
	params := url.Values{}
	for _, filter := range filters {
		if !remote.ValidIdentifier(filter.Column) {
			return nil, fmt.Errorf("%w: column %q", remote.ErrInvalidIdentifier, filter.Column)
		}
		if filter.Value == nil {
			params.Add(filter.Column, "is.null")
			continue
		}
		params.Add(filter.Column, "eq."+fmt.Sprint(filter.Value))
	}
	return params, nil
}
