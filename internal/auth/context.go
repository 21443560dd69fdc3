package auth

import (
	"context"
)

type ctxKey string

const (
	claimsKey ctxKey = "sessionClaims"
)

type Claims struct {
	Subject string
	JWTID   string
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func FromContext(ctx context.Context) Claims {
	if v, ok := ctx.Value(claimsKey).(Claims); ok {
		return v
	}
	return Claims{}
}

// SessionID is the id of the authenticated challenge session, or "".
func SessionID(ctx context.Context) string {
	return FromContext(ctx).Subject
}
