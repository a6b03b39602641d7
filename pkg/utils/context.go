package utils

import (
	"context"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	IsSellerKey contextKey = "is_seller"
	TokenKey    contextKey = "token"
)

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID   int64
	Username string
	IsSeller bool
}

func SetUserContext(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, p)
	ctx = context.WithValue(ctx, IsSellerKey, p.IsSeller)
	return ctx
}

func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(UserIDKey).(Principal)
	return p, ok
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	p, ok := GetPrincipalFromContext(ctx)
	if !ok {
		return 0, false
	}
	return p.UserID, true
}

// IsSellerFromContext is false for anonymous callers.
func IsSellerFromContext(ctx context.Context) bool {
	isSeller, _ := ctx.Value(IsSellerKey).(bool)
	return isSeller
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
