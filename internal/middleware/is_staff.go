package middleware

import (
	"net/http"

	"npu-collective/sabha/internal/auth"
)

// IsStaffMiddleware admits super_user and admin callers.
func IsStaffMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetPrincipal(r.Context())
			if claims == nil || !claims.Role().IsStaff() {
				http.Error(w, "Forbidden. Need staff perms", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
