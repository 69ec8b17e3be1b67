package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"npu-collective/sabha/internal/constants"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type providerClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ParseBearerToken validates a JWT issued by the external auth provider and
// maps it onto principal claims. The provider owns credential storage; we
// only verify the signature and read the identity it asserted.
func ParseBearerToken(tokenString string) (*TokenClaims, error) {
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		return nil, errors.New("AUTH_JWT_SECRET not configured")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &providerClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*providerClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	role := constants.Role(claims.Role)
	if !role.Valid() {
		role = constants.RoleVisitor
	}

	return &TokenClaims{
		UserIDValue: claims.Subject,
		EmailValue:  claims.Email,
		RoleValue:   role,
	}, nil
}
