// Package ctxutil provides shared context key accessors.
//
// The server middleware resolves the caller's firm and stores it here; the
// HTTP handlers and the MCP tools read it back. Both import ctxutil rather
// than each other.
package ctxutil

import (
	"context"

	"github.com/professional-hubs/conflicts/internal/auth"
)

type contextKey string

const (
	keyClaims    contextKey = "claims"
	keyFirmID    contextKey = "firm_id"
	keyRequestID contextKey = "request_id"
)

// WithClaims returns a new context carrying the given claims and their firm.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, keyClaims, claims)
	return WithFirmID(ctx, claims.FirmID)
}

// ClaimsFromContext extracts the JWT claims from the context. It returns nil
// when the firm was resolved without a token.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	if v, ok := ctx.Value(keyClaims).(*auth.Claims); ok {
		return v
	}
	return nil
}

// WithFirmID returns a new context scoped to firmID.
func WithFirmID(ctx context.Context, firmID int64) context.Context {
	return context.WithValue(ctx, keyFirmID, firmID)
}

// FirmIDFromContext returns the firm the request acts for, or 0 if none was resolved.
func FirmIDFromContext(ctx context.Context) int64 {
	if v, ok := ctx.Value(keyFirmID).(int64); ok {
		return v
	}
	return 0
}

// WithRequestID returns a new context carrying the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestIDFromContext extracts the request ID from the context.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(keyRequestID).(string); ok {
		return v
	}
	return ""
}
