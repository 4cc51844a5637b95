// Package requestctx carries the acting user and request correlation id
// through a context.Context.
package requestctx

import (
	"context"

	"github.com/unifiedui/variables-service/internal/domain/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	requestIDKey
)

// WithUser returns a context with the acting user set.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// WithRequestID returns a context with the request id set.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// User extracts the acting user from the context, or the zero User if absent.
func User(ctx context.Context) models.User {
	v, _ := ctx.Value(userKey).(models.User)
	return v
}

// RequestID extracts the request id from the context, or "" if absent.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
