package session

import (
	"context"
	"errors"
	"strings"
)

var ErrUnauthenticated = errors.New("not authenticated")

// Provider supplies the id of the signed in user, if any.
type Provider interface {
	UserID(ctx context.Context) (string, bool)
}

type contextKey int

const (
	userIDKey contextKey = iota
	accessTokenKey
)

// Static always reports the same user. An empty id means signed out.
type Static string

func (s Static) UserID(context.Context) (string, bool) {
	id := strings.TrimSpace(string(s))
	return id, id != ""
}

// ContextProvider reads the user placed on the context by the auth layer.
type ContextProvider struct{}

func (ContextProvider) UserID(ctx context.Context) (string, bool) {
	return UserIDFromContext(ctx)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// WithAccessToken keeps the caller's bearer token so backends enforcing
// row level security can act on the user's behalf.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Require returns the current user id or ErrUnauthenticated.
func Require(ctx context.Context, provider Provider) (string, error) {
	if provider == nil {
		return "", ErrUnauthenticated
	}
	userID, ok := provider.UserID(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return userID, nil
}
