package middleware

import (
	"net/http"

	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/constants"
)

// IsMemberMiddleware admits members and staff; visitors stay out.
func IsMemberMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetPrincipal(r.Context())
			if claims == nil || claims.Role() == constants.RoleVisitor || !claims.Role().Valid() {
				http.Error(w, "Forbidden. Need member perms", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
