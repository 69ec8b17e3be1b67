package auth

import (
	"context"
)

type contextKey string

var principalKey contextKey = "principal"

func SetPrincipal(ctx context.Context, claims PrincipalClaims) context.Context {
	return context.WithValue(ctx, principalKey, claims)
}

func GetPrincipal(ctx context.Context) PrincipalClaims {
	val := ctx.Value(principalKey)
	if claims, ok := val.(PrincipalClaims); ok {
		return claims
	}
	return nil
}
