package common

import "context"

type ctxKey string

const adminIDKey ctxKey = "auth/admin-id"

// WithAdminID stores the authenticated admin identifier on the provided context.
func WithAdminID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, adminIDKey, id)
}

// AdminIDFromContext extracts the authenticated admin identifier if present.
func AdminIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(adminIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
