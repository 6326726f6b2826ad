package common

import "context"

type ctxKey string

const userIDKey ctxKey = "auth/user-id"

// WithUserID stores the authenticated user identifier on the provided context.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID extracts the authenticated user identifier from the context if present.
func UserID(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

const bearerTokenKey ctxKey = "auth/bearer-token"

// WithBearerToken stores the raw bearer token so outbound collaborator calls
// can forward it.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey, token)
}

// BearerToken returns the raw bearer token attached to the context.
func BearerToken(ctx context.Context) (string, bool) {
	v := ctx.Value(bearerTokenKey)
	if v == nil {
		return "", false
	}
	token, ok := v.(string)
	return token, ok
}
