package api

import (
	"context"
)

type keyType string

const authorizedKey keyType = "authorized"

// ctxWithAuthorized marks the request as carrying valid backend credentials
func ctxWithAuthorized(ctx context.Context) context.Context {
	return context.WithValue(ctx, authorizedKey, true)
}

// ctxIsAuthorized reports whether an earlier middleware accepted the credentials
func ctxIsAuthorized(ctx context.Context) bool {
	authorized, ok := ctx.Value(authorizedKey).(bool)
	return ok && authorized
}
