package middleware

import (
	"net/http"

	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/constants"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetPrincipal(r.Context())
			if claims == nil || claims.Role() != constants.RoleAdmin {
				http.Error(w, "Forbidden. Need admin perms", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
